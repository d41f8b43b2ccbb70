package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kirillkom/pick-my-fit/internal/infrastructure/schema/yamlfile"
)

// CategoriesCmd returns the categories command
func CategoriesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the outfit slots of the category schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := yamlfile.Load(root.schemaPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			required := color.New(color.FgYellow)
			for _, slot := range schema.SlotsByGrid() {
				line := fmt.Sprintf("%-12s %s", slot.ID, slot.DisplayName)
				if slot.Required {
					line += required.Sprint(" [required]")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
