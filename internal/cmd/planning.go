package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/templates"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a project's complexity",
	Long: `Score a project's complexity on its five dimensions (technical, domain,
integration, scale, uncertainty) and the overall level.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan the initial stage sequence for a project",
	Long: `Select the transition network for a project and walk it into an initial
stage plan. Unreadable metadata yields the default plan.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show execution parameters for a stage",
	Args:  cobra.NoArgs,
	RunE:  runParams,
}

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Show everything needed to run a stage",
	Long: `Show a stage's responsibilities, execution parameters, domain instructions,
evaluation criteria and human checkpoints for a project.`,
	Args: cobra.NoArgs,
	RunE: runBrief,
}

var stageFlag int

func init() {
	for _, c := range []*cobra.Command{scoreCmd, planCmd, paramsCmd, briefCmd} {
		addProjectFlags(c)
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{paramsCmd, briefCmd} {
		c.Flags().IntVarP(&stageFlag, "stage", "s", 0, "stage number (0-11)")
		_ = c.MarkFlagRequired("stage")
	}
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pr, err := readProject()
	if err != nil {
		return err
	}
	profile := newEngine(cmd, cfg).ScoreComplexity(cmd.Context(), pr)
	return output(cmd, templates.Profile, profile, profile)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pr, err := readProject()
	if err != nil {
		return err
	}
	plan := newEngine(cmd, cfg).PlanSequence(cmd.Context(), pr)
	return output(cmd, templates.Plan, plan, plan)
}

func runParams(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pr, err := readProject()
	if err != nil {
		return err
	}
	stage, err := stageFromFlag()
	if err != nil {
		return err
	}
	params := newEngine(cmd, cfg).StageParameters(cmd.Context(), pr, stage)
	return output(cmd, templates.Parameters, templates.ParametersData{Stage: stage, Parameters: params}, params)
}

func runBrief(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pr, err := readProject()
	if err != nil {
		return err
	}
	stage, err := stageFromFlag()
	if err != nil {
		return err
	}
	b := newEngine(cmd, cfg).StageBrief(cmd.Context(), "", pr, stage)
	return output(cmd, templates.Brief, b, b)
}

// stageFromFlag returns --stage, rejecting stages outside the catalog.
func stageFromFlag() (catalog.Stage, error) {
	stage := catalog.Stage(stageFlag)
	if err := catalog.ValidateStage(stage); err != nil {
		return 0, fmt.Errorf("--stage: %w", err)
	}
	return stage, nil
}
