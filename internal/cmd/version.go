package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/server"
	"github.com/IlumCI/HACF/internal/updater"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Long:  `Print the version. With --check, also ask GitHub whether a newer release exists.`,
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var checkFlag bool

// newChecker is a package-level var to allow test injection.
var newChecker = func() *updater.Checker { return updater.New() }

func init() {
	versionCmd.Flags().BoolVar(&checkFlag, "check", false, "check for a newer release")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "hacf v%s\n", server.Version)
	if !checkFlag {
		return nil
	}

	res, err := newChecker().Check(cmd.Context(), server.Version)
	if err != nil {
		return err
	}
	if res.Available {
		fmt.Fprintf(w, "Update available: v%s -> v%s\n%s\n", res.Current, res.Latest, res.URL)
	} else {
		fmt.Fprintf(w, "Up to date (latest release v%s)\n", res.Latest)
	}
	return nil
}
