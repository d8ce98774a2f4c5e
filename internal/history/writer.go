package history

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer appends entries to the history with pruning.
// It is safe for concurrent use within one process.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain; 0 keeps all.
	MaxEntries int
	// Warnings receives write failures (default os.Stderr).
	Warnings io.Writer

	mu sync.Mutex
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

// Log adds an entry to the history file.
// Errors are non-fatal: they are reported as a warning and never fail the
// install that is being recorded.
func (w *Writer) Log(entry Entry) {
	if err := w.log(entry); err != nil {
		out := w.Warnings
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to record install history: %v\n", err)
	}
}

func (w *Writer) log(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := Save(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	logDebug("[history] recorded %s run into %s (%d entries)", entry.Command, entry.Target, len(history.Entries))
	return nil
}
