package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typhoonworks/claude-config/internal/install"
	"github.com/typhoonworks/claude-config/internal/output"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update existing configurations",
		Long: `Reinstall the available configurations over the target directory.

Commands are overwritten with the current source version and settings gain any
missing permissions. Items that are outdated or locally modified are listed
first. Without --yes the usual interactive selection is shown.`,
		Example: `  claude-config update
  claude-config update --yes`,
		GroupID: GroupInstall,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}
}

func runUpdate(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	output.PrintHeader(out, "Updating configurations...")

	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}

	cat, err := s.scan()
	if err != nil {
		return err
	}

	statuses, err := install.New(s.source, s.target).Status(cat)
	if err != nil {
		return fmt.Errorf("checking install status: %w", err)
	}
	printStatuses(out, statuses)

	sel, err := chooseSelection(cmd, opts, s, cat)
	if err != nil {
		return err
	}
	return installSelection(cmd, s, sel)
}
