package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
)

// completionCommand prints shell completion scripts. Method ids and diagram
// keys complete from the configured catalogue.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(*cobra.Command, io.Writer) error{
		"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell, for example:

  source <(mlviz completion bash)
  mlviz completion zsh > "${fpath[1]}/_mlviz"
  mlviz completion fish > ~/.config/fish/completions/mlviz.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeMethods completes method ids from the configured catalogue.
func (c *CLI) completeMethods(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := c.completionCatalogue(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, m := range cat.Methods() {
		ids = append(ids, m.ID+"\t"+m.Method)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeDiagramKeys completes <method>-<index> keys.
func (c *CLI) completeDiagramKeys(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := c.completionCatalogue(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var keys []string
	for _, m := range cat.Methods() {
		for i, combo := range m.Combinations {
			keys = append(keys, diagram.Key{MethodID: m.ID, Index: i}.String()+"\t"+combo.Title(i))
		}
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completionCatalogue(cmd *cobra.Command) (*catalogue.Catalogue, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.loadCatalogue(cmd.Context(), cfg)
}
