package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/health"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that configurations can be installed",
		Long: `Check the configs source, the target directory and the settings files
already installed there. Also reports whether the Claude CLI is on PATH.

Exits with status 1 when a required check fails.`,
		Example: `  claude-config doctor
  claude-config doctor --target ~/work/app/.claude`,
		GroupID: GroupInfo,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, opts)
		},
	}
}

func runDoctor(cmd *cobra.Command, opts *rootOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(health.Options{
		Source:   s.source,
		Target:   s.target,
		LookPath: lookPathFunc,
	})
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return apperrors.NewRuntimeError("health checks failed",
			"Fix the failed checks above and run claude-config doctor again")
	}
	return nil
}
