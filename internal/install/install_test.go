// Package install tests copying and merging configuration items into a target.
// Related: internal/install/install.go, internal/install/plan.go
// Tags: install, copy, merge, settings, dry-run

package install

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/selection"
	"github.com/typhoonworks/claude-config/internal/settings"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newSource creates a configs tree with two commands and one settings file.
func newSource(t *testing.T) (*catalog.Source, catalog.Catalog) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "commands", "commit.md"), "# Commit\n")
	writeFile(t, filepath.Join(dir, "commands", "review.md"), "# Review\n")
	writeFile(t, filepath.Join(dir, "settings", "settings.json"),
		`{"permissions":{"allow":["Bash(git status:*)","Bash(make:*)"]}}`)

	src := catalog.DirSource(dir)
	cat, err := src.Scan()
	require.NoError(t, err)
	return src, cat
}

type recordingReporter struct {
	events []string
}

func (r *recordingReporter) Start(msg string)   { r.events = append(r.events, "start: "+msg) }
func (r *recordingReporter) Update(msg string)  { r.events = append(r.events, "update: "+msg) }
func (r *recordingReporter) Succeed(msg string) { r.events = append(r.events, "succeed: "+msg) }
func (r *recordingReporter) Fail(msg string)    { r.events = append(r.events, "fail: "+msg) }

func TestInstall_FreshTarget(t *testing.T) {
	t.Parallel()

	src, cat := newSource(t)
	target := filepath.Join(t.TempDir(), ".claude")
	rec := &recordingReporter{}
	in := &Installer{Source: src, Target: target, Progress: rec}

	report, err := in.Install(cat)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, map[string]int{"commands": 2, "settings": 1}, report.Counts)
	assert.Equal(t, []string{"commit", "review"}, report.Names(catalog.CommandsKey))
	for _, res := range report.Results {
		assert.Equal(t, ActionInstalled, res.Action, res.Item.File)
	}

	assert.Equal(t, "# Commit\n", readFile(t, filepath.Join(target, "commands", "commit.md")))
	assert.Equal(t, "# Review\n", readFile(t, filepath.Join(target, "commands", "review.md")))
	assert.JSONEq(t,
		`{"permissions":{"allow":["Bash(git status:*)","Bash(make:*)"]}}`,
		readFile(t, filepath.Join(target, "settings", "settings.json")))

	assert.Equal(t, []string{
		"start: Installing configurations...",
		"update: Installed 2 commands",
		"update: Installed 1 settings",
		"succeed: Configuration installed successfully!",
	}, rec.events)
}

func TestInstall_ExistingTarget(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing   map[string]string
		wantAction map[string]Action
		check      func(t *testing.T, target string, report *Report)
	}{
		"command is overwritten": {
			existing: map[string]string{
				"commands/commit.md": "# Old commit\n",
			},
			wantAction: map[string]Action{
				"commit.md":     ActionUpdated,
				"review.md":     ActionInstalled,
				"settings.json": ActionInstalled,
			},
			check: func(t *testing.T, target string, _ *Report) {
				assert.Equal(t, "# Commit\n", readFile(t, filepath.Join(target, "commands", "commit.md")))
			},
		},
		"settings are merged": {
			existing: map[string]string{
				"settings/settings.json": `{"model":"opus","permissions":{"allow":["Bash(make:*)","Read(*)"],"deny":["Bash(rm:*)"]}}`,
			},
			wantAction: map[string]Action{
				"commit.md":     ActionInstalled,
				"review.md":     ActionInstalled,
				"settings.json": ActionMerged,
			},
			check: func(t *testing.T, target string, report *Report) {
				var doc map[string]interface{}
				require.NoError(t, json.Unmarshal(
					[]byte(readFile(t, filepath.Join(target, "settings", "settings.json"))), &doc))

				perms := doc["permissions"].(map[string]interface{})
				assert.Equal(t, []interface{}{"Bash(make:*)", "Read(*)", "Bash(git status:*)"}, perms["allow"])
				assert.Equal(t, []interface{}{"Bash(rm:*)"}, perms["deny"])
				assert.Equal(t, "opus", doc["model"])

				last := report.Results[len(report.Results)-1]
				assert.Equal(t, []string{"Bash(git status:*)"}, last.Added)
			},
		},
		"settings without allow list are left alone": {
			existing: map[string]string{
				"settings/settings.json": `{"model":"opus"}`,
			},
			wantAction: map[string]Action{
				"commit.md":     ActionInstalled,
				"review.md":     ActionInstalled,
				"settings.json": ActionMerged,
			},
			check: func(t *testing.T, target string, _ *Report) {
				assert.JSONEq(t, `{"model":"opus"}`,
					readFile(t, filepath.Join(target, "settings", "settings.json")))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, cat := newSource(t)
			target := t.TempDir()
			for rel, content := range tt.existing {
				writeFile(t, filepath.Join(target, filepath.FromSlash(rel)), content)
			}

			report, err := New(src, target).Install(cat)
			require.NoError(t, err)

			got := make(map[string]Action)
			for _, res := range report.Results {
				got[res.Item.File] = res.Action
			}
			assert.Equal(t, tt.wantAction, got)
			tt.check(t, target, report)
		})
	}
}

func TestInstall_Idempotent(t *testing.T) {
	t.Parallel()

	src, cat := newSource(t)
	target := t.TempDir()
	in := New(src, target)

	_, err := in.Install(cat)
	require.NoError(t, err)
	first := readFile(t, filepath.Join(target, "settings", "settings.json"))

	_, err = in.Install(cat)
	require.NoError(t, err)
	second := readFile(t, filepath.Join(target, "settings", "settings.json"))

	assert.JSONEq(t, first, second)
}

func TestInstall_Failures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		sourceSettings string
		targetSettings string
		wantOp         string
		wantErr        func(t *testing.T, err error)
	}{
		"invalid source settings": {
			sourceSettings: `{"permissions":{"allow":[42]}}`,
			wantOp:         "validate",
			wantErr: func(t *testing.T, err error) {
				var schemaErr *settings.SchemaError
				assert.True(t, errors.As(err, &schemaErr))
			},
		},
		"malformed source settings": {
			sourceSettings: `{"permissions":`,
			wantOp:         "validate",
			wantErr: func(t *testing.T, err error) {
				var parseErr *settings.ParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		"malformed target settings": {
			sourceSettings: `{"permissions":{"allow":["a"]}}`,
			targetSettings: `not json`,
			wantOp:         "merge",
			wantErr: func(t *testing.T, err error) {
				var parseErr *settings.ParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Contains(t, parseErr.Path, "settings.json")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "commands", "commit.md"), "# Commit\n")
			writeFile(t, filepath.Join(dir, "settings", "settings.json"), tt.sourceSettings)
			src := catalog.DirSource(dir)
			cat, err := src.Scan()
			require.NoError(t, err)

			target := t.TempDir()
			targetSettings := filepath.Join(target, "settings", "settings.json")
			if tt.targetSettings != "" {
				writeFile(t, targetSettings, tt.targetSettings)
			}

			rec := &recordingReporter{}
			in := &Installer{Source: src, Target: target, Progress: rec}
			report, err := in.Install(cat)
			require.Error(t, err)

			var installErr *InstallError
			require.True(t, errors.As(err, &installErr))
			assert.Equal(t, tt.wantOp, installErr.Op)
			assert.Equal(t, "settings.json", installErr.Item.File)
			tt.wantErr(t, err)

			// Items before the failure stay installed.
			assert.Equal(t, 1, report.Total)
			assert.FileExists(t, filepath.Join(target, "commands", "commit.md"))
			assert.Equal(t, "fail: Installation failed", rec.events[len(rec.events)-1])

			if tt.targetSettings != "" {
				assert.Equal(t, tt.targetSettings, readFile(t, targetSettings))
			} else {
				assert.NoFileExists(t, targetSettings)
			}
		})
	}
}

func TestInstall_EmptySelection(t *testing.T) {
	t.Parallel()

	src, _ := newSource(t)
	target := filepath.Join(t.TempDir(), ".claude")

	report, err := New(src, target).Install(selection.Selection{})
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.NoDirExists(t, filepath.Join(target, "commands"))
}

func TestInstall_FilteredSelection(t *testing.T) {
	t.Parallel()

	src, cat := newSource(t)
	target := t.TempDir()

	sel := selection.ResolveByFlags(cat, selection.Flags{Settings: true})
	report, err := New(src, target).Install(sel)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.NoDirExists(t, filepath.Join(target, "commands"))
	assert.FileExists(t, filepath.Join(target, "settings", "settings.json"))
}

func TestPlan(t *testing.T) {
	t.Parallel()

	src, cat := newSource(t)
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "commands", "review.md"), "# Local\n")
	writeFile(t, filepath.Join(target, "settings", "settings.json"), `{}`)

	plan, err := New(src, target).Plan(cat)
	require.NoError(t, err)

	got := make(map[string]Action)
	for _, p := range plan {
		got[p.Item.File] = p.Action
		assert.Equal(t, filepath.Join(target, p.Item.Category, p.Item.File), p.Path)
	}
	assert.Equal(t, map[string]Action{
		"commit.md":     ActionInstalled,
		"review.md":     ActionUpdated,
		"settings.json": ActionMerged,
	}, got)

	// Planning never writes.
	assert.NoFileExists(t, filepath.Join(target, "commands", "commit.md"))
	assert.Equal(t, "# Local\n", readFile(t, filepath.Join(target, "commands", "review.md")))
}

func TestInstallError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := &InstallError{
		Item: catalog.Item{Category: "commands", File: "commit.md"},
		Op:   "write",
		Err:  cause,
	}
	assert.Equal(t, "write commands/commit.md: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	dirErr := &InstallError{Item: catalog.Item{Category: "settings"}, Op: "create directory", Err: cause}
	assert.Equal(t, "create directory settings: disk full", dirErr.Error())
}
