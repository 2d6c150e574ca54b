package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/sifter/pkg/cobrax/topics"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/registry"

	// registration side effects
	_ "github.com/arthur-debert/sifter/pkg/conditions"
	_ "github.com/arthur-debert/sifter/pkg/fields"
	_ "github.com/arthur-debert/sifter/pkg/filesource"
	_ "github.com/arthur-debert/sifter/pkg/processors"
)

func newPluginsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: MsgPluginsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			renderer := topics.NewMarkdownRenderer(a.styled(out))
			_, err := fmt.Fprint(out, renderer.Render(pluginsMarkdown(), ".md"))
			return err
		},
	}
}

// pluginsMarkdown lists every registered plugin as markdown tables.
func pluginsMarkdown() string {
	var b strings.Builder
	b.WriteString(MsgPluginsHeading)
	section(&b, "Sources", plugins.Sources().Entries())
	section(&b, "Conditions", plugins.Conditions().Entries())
	section(&b, "Fields", plugins.Fields().Entries())
	section(&b, "Processors", plugins.Processors().Entries())
	section(&b, "Caches", plugins.Caches().Entries())
	return b.String()
}

func section(b *strings.Builder, title string, entries []registry.Entry) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(entries) == 0 {
		b.WriteString("_none registered_\n\n")
		return
	}
	b.WriteString("| Name | Description |\n|------|-------------|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| `%s` | %s |\n", e.Name, strings.ReplaceAll(e.Description, "|", "\\|"))
	}
	b.WriteString("\n")
}
