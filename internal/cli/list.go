package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typhoonworks/claude-config/internal/install"
	"github.com/typhoonworks/claude-config/internal/output"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available configurations",
		Long: `List the configurations available for install, grouped by category.

Each entry shows the command description and whether it is installed in the
target directory. Commands are outdated when the source carries a newer
frontmatter version; settings are outdated when the installed file lacks
some of the source permissions.`,
		Example: `  claude-config list
  claude-config list --source ../claude-configs`,
		GroupID: GroupInfo,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}
}

func runList(cmd *cobra.Command, opts *rootOptions) error {
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

	out := cmd.OutOrStdout()
	output.PrintHeader(out, "Available configurations:")

	byCategory := make(map[string][]install.ItemStatus)
	for _, st := range statuses {
		byCategory[st.Item.Category] = append(byCategory[st.Item.Category], st)
	}

	for _, key := range cat.Keys() {
		output.PrintCategory(out, "\n", fmt.Sprintf("%s (%d items):", strings.ToUpper(key), len(cat[key])))
		for _, st := range byCategory[key] {
			output.PrintCheckItem(out, st.Item.Name, statusNote(st))
		}
	}
	return nil
}

// statusNote renders the description and install state of an item.
func statusNote(st install.ItemStatus) string {
	if st.Description == "" {
		return stateNote(st)
	}
	return "- " + st.Description + " " + stateNote(st)
}

// stateNote renders the install state, with detail for outdated items.
func stateNote(st install.ItemStatus) string {
	state := st.State.String()
	switch {
	case st.State == install.Outdated && st.InstalledVersion != "":
		state = fmt.Sprintf("outdated: %s -> %s", st.InstalledVersion, st.AvailableVersion)
	case st.State == install.Outdated && len(st.Missing) > 0:
		state = fmt.Sprintf("outdated: %d permissions missing", len(st.Missing))
	}
	return "(" + state + ")"
}

// printStatuses lists the items that an update would change.
func printStatuses(out io.Writer, statuses []install.ItemStatus) {
	for _, st := range statuses {
		if st.State == install.Outdated || st.State == install.Modified {
			fmt.Fprintf(out, "  %s/%s %s\n", st.Item.Category, st.Item.Name, stateNote(st))
		}
	}
}
