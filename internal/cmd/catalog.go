package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/tools"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [stages|networks|industries|domains]",
	Short:     "List the static catalog",
	Long:      `List the workflow stages, transition networks, industry profiles or domain specializations.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{tools.KindStages, tools.KindNetworks, tools.KindIndustries, tools.KindDomains},
	RunE:      runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	kind := tools.KindStages
	if len(args) == 1 {
		kind = args[0]
	}
	name, data, ok := tools.CatalogView(kind)
	if !ok {
		return fmt.Errorf("unknown catalog %q: use stages, networks, industries or domains", kind)
	}
	return output(cmd, name, data, data)
}
