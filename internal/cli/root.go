// Package cli implements the helios command-line tool, which runs
// calculations locally without the HTTP server or a database.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/helios/internal/engine"
)

type globalOptions struct {
	catalogFile string
	jsonOutput  bool
}

// NewRootCommand builds the helios command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "helios",
		Short: "Residential solar sizing and savings estimates",
		Long: `helios sizes a residential PV system and estimates its production,
cost, savings and financing options.

Environment Variables:
  IRRADIANCE_API_URL  PVWatts-compatible endpoint (optional)
  IRRADIANCE_API_KEY  API key for the irradiance endpoint
  CATALOG_FILE        YAML equipment catalog overrides`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "YAML equipment catalog overrides (overrides CATALOG_FILE)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output JSON instead of human-readable text")

	root.AddCommand(newCalculateCommand(&calculateOptions{globalOptions: opts}))
	root.AddCommand(newCatalogCommand(opts))

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadCatalog returns the catalog named by --catalog or CATALOG_FILE, or the
// built-in one.
func (o *globalOptions) loadCatalog() (engine.Catalog, error) {
	path := o.catalogFile
	if path == "" {
		path = os.Getenv("CATALOG_FILE")
	}
	if path == "" {
		return engine.DefaultCatalog(), nil
	}
	return engine.LoadCatalog(path)
}
