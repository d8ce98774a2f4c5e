// Package history tests install history storage, pruning and filtering.
// Related: internal/history/history.go, internal/history/writer.go
// Tags: history, yaml, state

package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	history, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, history.Entries)
	assert.Empty(t, history.Entries)
}

func TestLoad_CorruptFileIsBackedUp(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	path := filepath.Join(stateDir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("entries: [unclosed\n"), 0o644))

	history, err := Load(stateDir)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
	assert.FileExists(t, path+BackupSuffix)
	assert.NoFileExists(t, path)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	stateDir := filepath.Join(t.TempDir(), "nested", "state")
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	want := &File{Entries: []Entry{{
		Timestamp:        started,
		Command:          "install",
		Source:           "bundled configs",
		Target:           "/work/app/.claude",
		Status:           StatusFailed,
		Installed:        2,
		Items:            []string{"commands/commit", "commands/review"},
		PermissionsAdded: 1,
		Error:            "merge settings/settings: permission denied",
		Duration:         "15ms",
	}}}
	require.NoError(t, Save(stateDir, want))

	data, err := os.ReadFile(filepath.Join(stateDir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "permissions_added: 1")

	got, err := Load(stateDir)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.True(t, started.Equal(got.Entries[0].Timestamp))
	got.Entries[0].Timestamp = started
	assert.Equal(t, want, got)
}

func TestClear(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	require.NoError(t, Save(stateDir, &File{Entries: []Entry{{Command: "install"}}}))
	require.NoError(t, Clear(stateDir))

	history, err := Load(stateDir)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Command: "install", Target: "/a"},
		{Command: "update", Target: "/b"},
		{Command: "watch", Target: "/a"},
		{Command: "update", Target: "/a"},
	}

	tests := map[string]struct {
		target string
		limit  int
		want   []string
	}{
		"everything":       {want: []string{"install", "update", "watch", "update"}},
		"by target":        {target: "/a", want: []string{"install", "watch", "update"}},
		"limit keeps last": {limit: 2, want: []string{"watch", "update"}},
		"target and limit": {target: "/a", limit: 1, want: []string{"update"}},
		"no match":         {target: "/c"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, e := range Filter(entries, tt.target, tt.limit) {
				got = append(got, e.Command)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	dir, err := DefaultStateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/state", "claude-config"), dir)

	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)
	dir, err = DefaultStateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", "claude-config"), dir)
}
