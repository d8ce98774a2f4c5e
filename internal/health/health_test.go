// Package health tests the doctor checks for source, target and installed settings.
// Related: internal/health/health.go
// Tags: health, doctor, settings, validation

package health

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-git/go-git/v5"

	"github.com/typhoonworks/claude-config/internal/catalog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func found(string) (string, error)   { return "/usr/local/bin/claude", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func TestCheckClaudeCLI(t *testing.T) {
	t.Parallel()

	result := CheckClaudeCLI(found)
	assert.True(t, result.Passed)
	assert.True(t, result.Optional)

	result = CheckClaudeCLI(missing)
	assert.False(t, result.Passed)
	assert.True(t, result.Optional)
	assert.Contains(t, result.Message, "not found in PATH")
}

func TestCheckSource(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup      func(t *testing.T, dir string)
		needsPerms bool
		wantPassed bool
		wantMsg    string
	}{
		"commands and settings": {
			setup: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, "commands", "a.md"), "a")
				writeFile(t, filepath.Join(dir, "settings", "settings.json"), "{}")
			},
			wantPassed: true,
			wantMsg:    "2 configurations in",
		},
		"empty directory": {
			setup:   func(t *testing.T, dir string) {},
			wantMsg: "no configurations found",
		},
		"unreadable category": {
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "commands"), 0o000))
				t.Cleanup(func() { os.Chmod(filepath.Join(dir, "commands"), 0o755) })
			},
			needsPerms: true,
			wantMsg:    "cannot scan",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if tt.needsPerms && os.Geteuid() == 0 {
				t.Skip("root can read any directory")
			}

			dir := t.TempDir()
			tt.setup(t, dir)

			result := CheckSource(catalog.DirSource(dir))
			assert.Equal(t, NameSource, result.Name)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCheckTarget(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		target     func(t *testing.T) string
		wantPassed bool
		wantMsg    string
	}{
		"existing directory": {
			target:     func(t *testing.T) string { return t.TempDir() },
			wantPassed: true,
			wantMsg:    "is writable",
		},
		"missing directory": {
			target:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "a", ".claude") },
			wantPassed: true,
			wantMsg:    "will be created",
		},
		"file in the way": {
			target: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), ".claude")
				writeFile(t, path, "")
				return path
			},
			wantMsg: "is not a directory",
		},
		"parent is a file": {
			target: func(t *testing.T) string {
				parent := filepath.Join(t.TempDir(), "file")
				writeFile(t, parent, "")
				return filepath.Join(parent, ".claude")
			},
			wantMsg: "cannot",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			target := tt.target(t)
			result := CheckTarget(target)
			assert.Equal(t, tt.wantPassed, result.Passed, result.Message)
			assert.Contains(t, result.Message, tt.wantMsg)

			entries, _ := os.ReadDir(target)
			for _, e := range entries {
				assert.False(t, strings.HasPrefix(e.Name(), ".claude-config-probe-"), "probe file left behind")
			}
		})
	}
}

func TestCheckInstalledSettings(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files      map[string]string
		wantPassed bool
		wantMsg    string
	}{
		"no settings": {
			wantPassed: true,
			wantMsg:    "no settings installed",
		},
		"valid settings": {
			files: map[string]string{
				"settings.json":       `{"permissions":{"allow":["Read(*)"]}}`,
				"settings.local.json": `{}`,
			},
			wantPassed: true,
			wantMsg:    "2 settings files valid",
		},
		"malformed file": {
			files:   map[string]string{"settings.json": `{"permissions":`},
			wantMsg: "settings.json",
		},
		"schema violation": {
			files:   map[string]string{"settings.json": `{"permissions":{"allow":[1]}}`},
			wantMsg: "/permissions/allow/0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			target := t.TempDir()
			for file, content := range tt.files {
				writeFile(t, filepath.Join(target, "settings", file), content)
			}

			result := CheckInstalledSettings(target)
			assert.Equal(t, tt.wantPassed, result.Passed, result.Message)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCheckLocalSettingsIgnored(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		repo       bool
		gitignore  string
		install    bool
		wantPassed bool
		wantMsg    string
	}{
		"not installed": {
			repo:       true,
			wantPassed: true,
			wantMsg:    "not installed",
		},
		"outside a repository": {
			install:    true,
			wantPassed: true,
			wantMsg:    "not in a git repository",
		},
		"ignored": {
			repo:       true,
			gitignore:  "*.local.json\n",
			install:    true,
			wantPassed: true,
			wantMsg:    "is ignored by git",
		},
		"not ignored": {
			repo:    true,
			install: true,
			wantMsg: "add it to .gitignore",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)
			if tt.repo {
				_, err := git.PlainInit(root, false)
				require.NoError(t, err)
			}
			if tt.gitignore != "" {
				writeFile(t, filepath.Join(root, ".gitignore"), tt.gitignore)
			}
			target := filepath.Join(root, ".claude")
			if tt.install {
				writeFile(t, filepath.Join(target, "settings", LocalSettingsFile), "{}")
			}

			result := CheckLocalSettingsIgnored(target)
			assert.True(t, result.Optional)
			assert.Equal(t, tt.wantPassed, result.Passed, result.Message)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	writeFile(t, filepath.Join(source, "commands", "commit.md"), "# Commit")
	target := filepath.Join(t.TempDir(), ".claude")

	report := RunHealthChecks(Options{Source: catalog.DirSource(source), Target: target, LookPath: missing})
	require.Len(t, report.Checks, 5)
	assert.True(t, report.Passed, "a missing Claude CLI is optional")

	var names []string
	for _, check := range report.Checks {
		names = append(names, check.Name)
	}
	assert.Equal(t, []string{NameClaudeCLI, NameSource, NameTarget, NameSettings, NameLocal}, names)

	writeFile(t, filepath.Join(target, "settings", "settings.json"), `[]`)
	report = RunHealthChecks(Options{Source: catalog.DirSource(source), Target: target, LookPath: found})
	assert.False(t, report.Passed)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: NameClaudeCLI, Message: "claude not found in PATH", Optional: true},
			{Name: NameSource, Passed: true, Message: "6 configurations in bundled configs"},
			{Name: NameSettings, Message: "settings.json: bad"},
		},
	}

	assert.Equal(t,
		"○ Claude CLI: claude not found in PATH\n"+
			"✓ Configs source: 6 configurations in bundled configs\n"+
			"✗ Installed settings: settings.json: bad\n",
		FormatReport(report))
}
