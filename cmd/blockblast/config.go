package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective rules as YAML",
	Long: `Print the rules in effect after loading --config or the search path.

The output is a valid rules file and can be saved to ~/.blockblast/config.yaml
as a starting point.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		out, err := yaml.Marshal(blockblast.Rules())
		if err != nil {
			return fmt.Errorf("encode rules: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}
