package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/history"
	"github.com/typhoonworks/claude-config/internal/install"
	"github.com/typhoonworks/claude-config/internal/output"
	"github.com/typhoonworks/claude-config/internal/prompt"
	"github.com/typhoonworks/claude-config/internal/selection"
)

// runInstall is the default action: dry run, filtered install or interactive install.
func runInstall(cmd *cobra.Command, opts *rootOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}

	cat, err := s.scan()
	if err != nil {
		return err
	}

	if opts.dryRun {
		return showDryRun(cmd.OutOrStdout(), s, selection.ResolveByFlags(cat, opts.flags))
	}

	if opts.flags.Any() {
		return installSelection(cmd, s, selection.ResolveByFlags(cat, opts.flags))
	}

	sel, err := chooseSelection(cmd, opts, s, cat)
	if err != nil {
		return err
	}
	return installSelection(cmd, s, sel)
}

// chooseSelection asks the user what to install, or selects everything when
// prompting is disabled or stdin is not a terminal.
func chooseSelection(cmd *cobra.Command, opts *rootOptions, s *session, cat catalog.Catalog) (selection.Selection, error) {
	if opts.yes || s.cfg.SkipConfirmations {
		return cat, nil
	}
	if !isTerminalFunc() {
		log.Debug("stdin is not a terminal, installing everything")
		return cat, nil
	}

	chooser := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	sel, err := selection.ResolveInteractively(cat, chooser)
	if err != nil {
		return nil, fmt.Errorf("selecting configurations: %w", err)
	}
	return sel, nil
}

// installSelection installs sel and prints a summary.
func installSelection(cmd *cobra.Command, s *session, sel selection.Selection) error {
	out := cmd.OutOrStdout()

	if selection.CountItems(sel) == 0 {
		fmt.Fprintln(out, "No configurations selected.")
		return nil
	}

	started := time.Now()
	report, err := s.installer(cmd.ErrOrStderr()).Install(sel)
	s.record(commandName(cmd), started, report, err)
	if err != nil {
		return installError(err, report)
	}

	printSummary(out, sel, report)
	return nil
}

// commandName names the command that installs for the history log.
func commandName(cmd *cobra.Command) string {
	if !cmd.HasParent() {
		return "install"
	}
	return cmd.Name()
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// record appends an install run to the history.
func (s *session) record(command string, started time.Time, report *install.Report, err error) {
	if s.history == nil {
		return
	}

	entry := history.Entry{
		ID:        uuid.New().String(),
		Timestamp: started,
		Command:   command,
		Source:    s.source.String(),
		Target:    absPath(s.target),
		Status:    history.StatusCompleted,
		Duration:  time.Since(started).Round(time.Millisecond).String(),
	}
	if report != nil {
		entry.Installed = report.Total
		for _, res := range report.Results {
			entry.Items = append(entry.Items, res.Item.Category+"/"+res.Item.Name)
			entry.PermissionsAdded += len(res.Added)
		}
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Error = err.Error()
	}

	s.history.Log(entry)
}

// printSummary lists what was installed, per category.
func printSummary(out io.Writer, sel selection.Selection, report *install.Report) {
	fmt.Fprintln(out)
	output.PrintHeader(out, fmt.Sprintf("Installed %d configuration files:", report.Total))

	for _, key := range sel.Keys() {
		output.PrintCategoryItems(out, key, report.Names(key))
	}

	for _, res := range report.Results {
		if res.Action == install.ActionMerged && len(res.Added) > 0 {
			fmt.Fprintf(out, "  merged %d new permissions into %s\n", len(res.Added), res.Path)
		}
	}
}

// showDryRun prints what an install of sel would do.
func showDryRun(out io.Writer, s *session, sel selection.Selection) error {
	plan, err := s.installer(io.Discard).Plan(sel)
	if err != nil {
		return installError(err, nil)
	}

	output.PrintHeader(out, "Dry run - would install:")

	byCategory := make(map[string][]install.PlannedItem)
	for _, p := range plan {
		byCategory[p.Item.Category] = append(byCategory[p.Item.Category], p)
	}

	for _, key := range sel.Keys() {
		items := byCategory[key]
		output.PrintCategory(out, "  ", fmt.Sprintf("%s (%d items):", key, len(items)))
		for _, p := range items {
			fmt.Fprintf(out, "    - %s%s\n", p.Item.Name, planNote(p.Action))
		}
	}
	return nil
}

func planNote(action install.Action) string {
	switch action {
	case install.ActionUpdated:
		return " (overwrite)"
	case install.ActionMerged:
		return " (merge permissions)"
	default:
		return ""
	}
}
