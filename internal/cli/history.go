package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/history"
)

type historyOptions struct {
	limit int
	clear bool
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	hopts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past installs",
		Long: `Show a log of install runs with timestamp, command, target, status and
the number of items installed. With --target only installs into that
directory are shown.`,
		Example: `  claude-config history
  claude-config history -n 5
  claude-config history --target ./.claude
  claude-config history --clear`,
		GroupID: GroupInfo,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, hopts)
		},
	}

	cmd.Flags().IntVarP(&hopts.limit, "limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().BoolVar(&hopts.clear, "clear", false, "Clear all history")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *rootOptions, hopts *historyOptions) error {
	if hopts.limit < 0 {
		return apperrors.NewArgumentError(
			fmt.Sprintf("--limit must not be negative, got %d", hopts.limit),
			"Use --limit 0 to show every entry",
		)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	w := historyWriter(cfg, cmd.ErrOrStderr())
	if w == nil {
		return apperrors.NewPrerequisiteError("cannot determine the history directory",
			"Set state_dir in your config")
	}

	out := cmd.OutOrStdout()

	if hopts.clear {
		if err := history.Clear(w.StateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	file, err := history.Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	target := ""
	if opts.targetDir != "" {
		target = absPath(opts.targetDir)
	}

	entries := history.Filter(file.Entries, target, hopts.limit)
	if len(entries) == 0 {
		if target != "" {
			fmt.Fprintf(out, "No installs recorded for %s.\n", target)
		} else {
			fmt.Fprintln(out, "No history available.")
		}
		return nil
	}

	displayEntries(out, entries)
	return nil
}

// displayEntries prints one line per entry, with the error of failed runs
// on an indented second line.
func displayEntries(out io.Writer, entries []history.Entry) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		status := fmt.Sprintf("%-9s", entry.Status)
		if entry.Status == history.StatusCompleted {
			status = green(status)
		} else {
			status = red(status)
		}

		fmt.Fprintf(out, "%s  %-8s %s %3d items  %-8s %s\n",
			cyan(entry.Timestamp.Local().Format("2006-01-02 15:04:05")),
			entry.Command,
			status,
			entry.Installed,
			entry.Duration,
			entry.Target,
		)
		if entry.Error != "" {
			fmt.Fprintf(out, "    %s\n", strings.TrimSpace(entry.Error))
		}
	}
}
