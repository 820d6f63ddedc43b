package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/templates"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Choose the next stage from feedback",
	Long: `Choose the stage that follows --current on the project's network.

High satisfaction follows the standard path; low satisfaction may take an
alternative or repeat the stage. Without --satisfaction, 0.7 is assumed.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var (
	currentFlag      int
	satisfactionFlag float64
	commentsFlag     string
	suggestionsFlag  []string
	correctionsFlag  []string
)

func init() {
	addProjectFlags(nextCmd)
	nextCmd.Flags().IntVar(&currentFlag, "current", 0, "stage just completed")
	nextCmd.Flags().Float64Var(&satisfactionFlag, "satisfaction", sequencer.DefaultSatisfaction, "satisfaction with the stage (0-1)")
	nextCmd.Flags().StringVar(&commentsFlag, "comments", "", "free-form feedback")
	nextCmd.Flags().StringArrayVar(&suggestionsFlag, "suggestion", nil, "suggested change (repeatable)")
	nextCmd.Flags().StringArrayVar(&correctionsFlag, "correction", nil, "specific correction as field=value (repeatable)")
	_ = nextCmd.MarkFlagRequired("current")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pr, err := readProject()
	if err != nil {
		return err
	}

	corrections, err := pairs("--correction", correctionsFlag)
	if err != nil {
		return err
	}
	fb := sequencer.Feedback{
		Comments:            commentsFlag,
		Suggestions:         suggestionsFlag,
		SpecificCorrections: corrections,
	}
	if cmd.Flags().Changed("satisfaction") {
		if satisfactionFlag < 0 || satisfactionFlag > 1 {
			return fmt.Errorf("--satisfaction must be between 0 and 1, got %g", satisfactionFlag)
		}
		fb.Satisfaction = &satisfactionFlag
	}

	d := newEngine(cmd, cfg).NextStage(cmd.Context(), pr, "", catalog.Stage(currentFlag), fb)
	return output(cmd, templates.Decision, d, d)
}
