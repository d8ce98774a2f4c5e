package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/output"
	"github.com/typhoonworks/claude-config/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reinstall whenever the configs directory changes",
		Long: `Install everything from a configs directory, then watch it and reinstall
whenever a command or settings file changes. Stop with Ctrl+C.

Requires --source or source_dir; the bundled configurations never change.`,
		Example: `  claude-config watch --source ../claude-configs`,
		GroupID: GroupInstall,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts)
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}
	if s.source.Dir() == "" {
		return apperrors.WatchRequiresDirectory()
	}

	w, err := watch.New(s.source.Dir(), s.cfg.WatchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	reinstall := func() {
		cat, err := s.source.Scan()
		if err != nil {
			apperrors.Fprint(errOut, err)
			return
		}
		if err := installSelection(cmd, s, cat); err != nil {
			apperrors.Fprint(errOut, err)
		}
	}

	reinstall()
	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)\n", s.source)

	err = w.Run(ctx, func(changed []string) {
		log.Debugf("changed: %v", changed)
		output.PrintSeparator(out, "reinstall")
		reinstall()
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", s.source, err)
	}
	return nil
}
