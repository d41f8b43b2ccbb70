// Package cli is the offline pickmyfit command line. It runs the outfit
// engine against local wardrobe files without Postgres or NATS.
package cli

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	schemaPath string
	logLevel   string
}

// RootCmd assembles the pickmyfit command tree.
func RootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     "pickmyfit",
		Short:   "Generate outfits from a local wardrobe file",
		Version: version,
		Long: `pickmyfit picks one item per clothing slot from a wardrobe file,
avoiding outfits worn recently. A local Ollama stylist can be used for
themed suggestions; the random selector covers for it when it fails.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "Category schema YAML (default: built-in closet layout)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	root.AddCommand(GenerateCmd(opts))
	root.AddCommand(CategoriesCmd(opts))
	return root
}
