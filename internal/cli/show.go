package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typhoonworks/claude-config/internal/catalog"
	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/output"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <name|category/name>",
		Short: "Print an available configuration",
		Long: `Print the content of one available configuration. Commands are rendered
as markdown and settings as highlighted JSON when stdout is a terminal.
Use category/name when a name exists in more than one category.`,
		Example: `  claude-config show commit
  claude-config show settings/settings
  claude-config show commit --raw > commit.md`,
		GroupID: GroupInfo,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the file content unchanged")
	return cmd
}

func runShow(cmd *cobra.Command, opts *rootOptions, ref string, raw bool) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}
	cat, err := s.scan()
	if err != nil {
		return err
	}

	item, err := findItem(cat, ref)
	if err != nil {
		return err
	}
	content, err := s.source.ReadItem(item)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ref, err)
	}

	out := cmd.OutOrStdout()
	if raw || !isStdoutTerminalFunc() {
		_, err := out.Write(content)
		return err
	}

	rendered, err := renderItem(item, content)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

// findItem resolves ref to exactly one item.
func findItem(cat catalog.Catalog, ref string) (catalog.Item, error) {
	found := cat.Find(ref)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return catalog.Item{}, apperrors.NewArgumentError(
			fmt.Sprintf("no configuration named %q", ref),
			"Run 'claude-config list' to see the available configurations",
		)
	default:
		refs := make([]string, len(found))
		for i, item := range found {
			refs[i] = item.Category + "/" + item.Name
		}
		return catalog.Item{}, apperrors.NewArgumentError(
			fmt.Sprintf("%q is ambiguous", ref),
			"Use one of: "+strings.Join(refs, ", "),
		)
	}
}

// renderItem renders a command as markdown, with its frontmatter as a
// header, and any other item as a code block.
func renderItem(item catalog.Item, content []byte) (string, error) {
	width := output.GetTerminalWidth()

	if item.Category != catalog.CommandsKey {
		return output.RenderCode(strings.TrimRight(string(content), "\n"), "json", width)
	}

	var header strings.Builder
	fmt.Fprintf(&header, "# %s\n\n", item.Name)
	if fm, err := catalog.ParseFrontmatter(content); err == nil {
		if fm.Description != "" {
			fmt.Fprintf(&header, "*%s*\n\n", fm.Description)
		}
		if fm.Version != "" {
			fmt.Fprintf(&header, "Version %s\n\n", fm.Version)
		}
	}

	return output.RenderMarkdown(header.String()+string(catalog.StripFrontmatter(content)), width)
}
