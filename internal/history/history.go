// Package history records install runs in a YAML file in the user's state
// directory so that `claude-config history` can show what was installed where.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the history file inside the state directory.
	FileName = "history.yaml"
	// BackupSuffix is appended to a history file that could not be parsed.
	BackupSuffix = ".backup"
)

// Status values of an entry.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Entry is one install run.
type Entry struct {
	// ID uniquely identifies the run.
	ID string `yaml:"id"`
	// Timestamp is when the run started.
	Timestamp time.Time `yaml:"timestamp"`
	// Command is the claude-config command that installed (install, update, watch).
	Command string `yaml:"command"`
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	// Status is completed or failed.
	Status string `yaml:"status"`
	// Installed is the number of items written before the run ended.
	Installed int `yaml:"installed"`
	// Items lists the installed items as category/name.
	Items []string `yaml:"items,omitempty"`
	// PermissionsAdded counts the permissions merged into existing settings files.
	PermissionsAdded int `yaml:"permissions_added,omitempty"`
	// Error is the failure message of a failed run.
	Error    string `yaml:"error,omitempty"`
	Duration string `yaml:"duration"`
}

// File is the on-disk history, oldest entry first.
type File struct {
	Entries []Entry `yaml:"entries"`
}

// DefaultStateDir returns $XDG_STATE_HOME/claude-config, falling back to
// ~/.local/state/claude-config.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "claude-config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "claude-config"), nil
}

// Load reads the history in stateDir. A missing file yields an empty history.
// A file that does not parse is moved aside with BackupSuffix and an empty
// history is returned.
func Load(stateDir string) (*File, error) {
	path := filepath.Join(stateDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history File
	if err := yaml.Unmarshal(data, &history); err != nil {
		logDebug("[history] %s is corrupt, backing it up: %v", path, err)
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", err)
		}
		return &File{Entries: []Entry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []Entry{}
	}
	return &history, nil
}

// Save writes the history to stateDir using temp file + rename, creating the
// directory if needed.
func Save(stateDir string, history *File) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp history file: %w", err)
	}
	return nil
}

// Clear removes every entry.
func Clear(stateDir string) error {
	return Save(stateDir, &File{Entries: []Entry{}})
}

// Filter returns the entries installed into target (all when target is empty),
// limited to the last limit entries when limit is positive.
func Filter(entries []Entry, target string, limit int) []Entry {
	var result []Entry
	for _, e := range entries {
		if target == "" || e.Target == target {
			result = append(result, e)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for history operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
