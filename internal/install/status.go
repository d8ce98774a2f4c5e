package install

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/settings"
)

// State is the install state of an item in the target directory.
type State int

const (
	// NotInstalled means the target has no file for the item.
	NotInstalled State = iota
	// Installed means the target file is current.
	Installed
	// Outdated means the source has a newer version or missing permissions.
	Outdated
	// Modified means the target differs from the source and no version
	// ordering can be established.
	Modified
)

// String returns the display form of the state.
func (s State) String() string {
	switch s {
	case NotInstalled:
		return "not installed"
	case Installed:
		return "installed"
	case Outdated:
		return "outdated"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// ItemStatus describes an available item relative to the target directory.
type ItemStatus struct {
	Item  catalog.Item
	State State
	// Description is the command description from frontmatter, if any.
	Description      string
	AvailableVersion string
	InstalledVersion string
	// Missing lists source permissions absent from an installed settings file.
	Missing []string
}

// statusWorkers bounds the number of items compared at once.
const statusWorkers = 8

// Status reports the install state of every item in cat, in catalog order.
// Items are only read, so they are compared concurrently.
func (in *Installer) Status(cat catalog.Catalog) ([]ItemStatus, error) {
	var items []catalog.Item
	for _, key := range cat.Keys() {
		items = append(items, cat[key]...)
	}

	statuses := make([]ItemStatus, len(items))
	var g errgroup.Group
	g.SetLimit(statusWorkers)
	for i, item := range items {
		g.Go(func() error {
			st, err := in.itemStatus(item)
			if err != nil {
				return err
			}
			statuses[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (in *Installer) itemStatus(item catalog.Item) (ItemStatus, error) {
	st := ItemStatus{Item: item}

	source, err := in.Source.ReadItem(item)
	if err != nil {
		return st, err
	}

	if item.Category == catalog.CommandsKey {
		if fm, err := catalog.ParseFrontmatter(source); err == nil {
			st.Description = fm.Description
			st.AvailableVersion = fm.Version
		}
	}

	targetFile := filepath.Join(in.Target, item.Category, item.File)
	installed, err := os.ReadFile(targetFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			st.State = NotInstalled
			return st, nil
		}
		return st, fmt.Errorf("reading %s: %w", targetFile, err)
	}

	switch item.Category {
	case catalog.SettingsKey:
		st.State, st.Missing = settingsState(source, installed, item.Path, targetFile)
	case catalog.CommandsKey:
		if fm, err := catalog.ParseFrontmatter(installed); err == nil {
			st.InstalledVersion = fm.Version
		}
		st.State = commandState(source, installed, st.AvailableVersion, st.InstalledVersion)
	default:
		st.State = contentState(source, installed)
	}

	return st, nil
}

// commandState compares frontmatter versions when both files carry a valid
// semantic version and falls back to comparing content otherwise.
func commandState(source, installed []byte, available, current string) State {
	newer, err := IsUpdateAvailable(current, available)
	if err != nil {
		logDebug("[install] version comparison skipped: %v", err)
		return contentState(source, installed)
	}
	if newer {
		return Outdated
	}
	return Installed
}

// settingsState reports Outdated when the installed settings lack some of the
// source permissions.
func settingsState(source, installed []byte, sourceName, targetName string) (State, []string) {
	src, err := settings.Parse(source, sourceName)
	if err != nil {
		return Modified, nil
	}
	dst, err := settings.Parse(installed, targetName)
	if err != nil {
		return Modified, nil
	}

	if missing := settings.MissingPermissions(src, dst); len(missing) > 0 {
		return Outdated, missing
	}
	if !dst.HasAllowList() && src.HasAllowList() {
		return Modified, nil
	}
	return Installed, nil
}

func contentState(source, installed []byte) State {
	if bytes.Equal(source, installed) {
		return Installed
	}
	return Modified
}

// IsUpdateAvailable reports whether available is a newer semantic version
// than current. A leading "v" is accepted on either version.
func IsUpdateAvailable(current, available string) (bool, error) {
	cv, err := parseSemver(current)
	if err != nil {
		return false, fmt.Errorf("parsing installed version %q: %w", current, err)
	}
	av, err := parseSemver(available)
	if err != nil {
		return false, fmt.Errorf("parsing available version %q: %w", available, err)
	}
	return cv.LessThan(av), nil
}

func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
