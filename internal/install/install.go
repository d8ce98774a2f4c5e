// Package install copies selected configuration items into a target
// .claude directory. Settings files that already exist in the target are
// merged instead of overwritten.
package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/selection"
	"github.com/typhoonworks/claude-config/internal/settings"
)

// Action describes what happened to a single item.
type Action string

const (
	// ActionInstalled means the item did not exist in the target and was copied.
	ActionInstalled Action = "installed"
	// ActionUpdated means an existing target file was overwritten.
	ActionUpdated Action = "updated"
	// ActionMerged means a settings file was merged into an existing target.
	ActionMerged Action = "merged"
)

// Result is the outcome of installing one item.
type Result struct {
	Item   catalog.Item
	Action Action
	Path   string   // Target file path
	Added  []string // Permissions added by a merge
}

// Report summarizes an install run.
type Report struct {
	Results []Result
	// Counts holds the number of installed items per category key.
	Counts map[string]int
	Total  int
}

// Names returns the item names installed for a category, in install order.
func (r *Report) Names(category string) []string {
	var names []string
	for _, res := range r.Results {
		if res.Item.Category == category {
			names = append(names, res.Item.Name)
		}
	}
	return names
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	r.Counts[res.Item.Category]++
	r.Total++
}

// Installer installs selections from a source tree into a target directory.
type Installer struct {
	Source   *catalog.Source
	Target   string // Target root, usually <project>/.claude
	Progress Reporter
}

// New creates an Installer with a no-op progress reporter.
func New(source *catalog.Source, target string) *Installer {
	return &Installer{Source: source, Target: target, Progress: Nop{}}
}

func (in *Installer) reporter() Reporter {
	if in.Progress == nil {
		return Nop{}
	}
	return in.Progress
}

// Install installs every item in sel, category by category in display order.
// The first failure aborts the remaining items and is returned as an
// *InstallError alongside the partial report. Items installed before the
// failure are left in place.
func (in *Installer) Install(sel selection.Selection) (*Report, error) {
	progress := in.reporter()
	report := &Report{Counts: make(map[string]int)}

	progress.Start("Installing configurations...")

	for _, key := range sel.Keys() {
		items := sel[key]
		categoryDir := filepath.Join(in.Target, key)
		if err := os.MkdirAll(categoryDir, 0o755); err != nil {
			progress.Fail("Installation failed")
			return report, &InstallError{
				Item: catalog.Item{Category: key},
				Op:   "create directory",
				Err:  err,
			}
		}

		for _, item := range items {
			res, err := in.installItem(item, categoryDir)
			if err != nil {
				progress.Fail("Installation failed")
				return report, err
			}
			logDebug("[install] %s %s -> %s", res.Action, item.File, res.Path)
			report.add(res)
		}

		progress.Update(fmt.Sprintf("Installed %d %s", len(items), key))
	}

	progress.Succeed("Configuration installed successfully!")
	return report, nil
}

// installItem copies or merges one item into categoryDir.
func (in *Installer) installItem(item catalog.Item, categoryDir string) (Result, error) {
	targetFile := filepath.Join(categoryDir, item.File)
	res := Result{Item: item, Path: targetFile}

	data, err := in.Source.ReadItem(item)
	if err != nil {
		return res, &InstallError{Item: item, Op: "read", Err: err}
	}

	exists, err := fileExists(targetFile)
	if err != nil {
		return res, &InstallError{Item: item, Op: "stat", Err: err}
	}

	if item.Category == catalog.SettingsKey {
		if _, err := settings.Check(data, item.Path); err != nil {
			return res, &InstallError{Item: item, Op: "validate", Err: err}
		}

		if exists {
			merged, err := settings.MergeData(data, item.Path, targetFile)
			if err != nil {
				return res, &InstallError{Item: item, Op: "merge", Err: err}
			}
			res.Action = ActionMerged
			res.Added = merged.Added
			return res, nil
		}
	}

	if err := os.WriteFile(targetFile, data, 0o644); err != nil {
		return res, &InstallError{Item: item, Op: "write", Err: err}
	}

	res.Action = ActionInstalled
	if exists {
		res.Action = ActionUpdated
	}
	return res, nil
}

// fileExists reports whether path exists. Directories count as existing so
// that the subsequent write reports the conflict.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for install operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
