// Package cli provides the Cobra-based command line interface of claude-config.
// The root command installs configurations; the other commands are
// subcommands of it.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/typhoonworks/claude-config/internal/build"
	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/selection"
)

// Command group IDs for organizing help output
const (
	GroupInstall = "install"
	GroupInfo    = "info"
)

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	configPath string
	sourceDir  string
	targetDir  string
	yes        bool
	debug      bool

	flags  selection.Flags
	dryRun bool
}

// newRootCmd builds the full command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "claude-config",
		Short: "Claude Code configuration manager for TyphoonWorks projects",
		Long: `Claude Code configuration manager for TyphoonWorks projects

Installs command definitions and settings into the project's .claude directory.
Settings files that already exist are merged: permissions.allow gains the new
entries and everything else in the file is left untouched.`,
		Example: `  # Choose interactively what to install
  claude-config

  # Install only the command definitions
  claude-config --commands

  # Show what would be installed
  claude-config --dry-run

  # Install everything from a local configs checkout
  claude-config --yes --source ../claude-configs`,
		Version:       build.Version,
		Args:          rejectArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureDebugLogging(cmd.ErrOrStderr(), opts.debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts)
		},
	}

	cmd.AddGroup(&cobra.Group{ID: GroupInstall, Title: "Install Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupInfo, Title: "Information:"})
	cmd.SetHelpCommandGroupID(GroupInfo)
	cmd.SetCompletionCommandGroupID(GroupInfo)
	cmd.SetFlagErrorFunc(flagError)

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to project config file (default .claude-config.yml)")
	pf.StringVar(&opts.sourceDir, "source", "", "Configs directory to install from (default: bundled configs)")
	pf.StringVar(&opts.targetDir, "target", "", "Install destination (default: <project>/.claude)")
	pf.BoolVarP(&opts.yes, "yes", "y", false, "Install without prompting")
	pf.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	// Install flags
	cmd.Flags().BoolVar(&opts.flags.Commands, "commands", false, "Install only commands")
	cmd.Flags().BoolVar(&opts.flags.Settings, "settings", false, "Install only settings")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be installed without installing")

	cmd.AddCommand(
		newListCmd(opts),
		newUpdateCmd(opts),
		newWatchCmd(opts),
		newHistoryCmd(opts),
		newDoctorCmd(opts),
		newShowCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and prints any error to stderr.
// The returned error maps to a process exit code with ExitCode.
func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		apperrors.Fprint(os.Stderr, err)
	}
	return err
}

// rejectArgs turns stray positional arguments into an argument error.
func rejectArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return apperrors.NewArgumentError(
		fmt.Sprintf("unknown command %q", args[0]),
		"Run 'claude-config --help' for usage",
	).WithUsage("claude-config [list|show|update|watch|history|doctor|version] [flags]")
}

// flagError reports flag parsing failures as argument errors.
func flagError(cmd *cobra.Command, err error) error {
	return apperrors.NewArgumentError(
		err.Error(),
		fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
	).WithUsage(cmd.UseLine())
}

// exactArgs requires n positional arguments and reports a mismatch as an
// argument error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		noun := "arguments"
		if n == 1 {
			noun = "argument"
		}
		return apperrors.NewArgumentError(
			fmt.Sprintf("expected %d %s, got %d", n, noun, len(args)),
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
		).WithUsage(cmd.UseLine())
	}
}
