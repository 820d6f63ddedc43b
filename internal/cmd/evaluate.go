package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/templates"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a stage's output",
	Long: `Score a stage's output on its criteria and roll them up into quality
dimensions. Pass --score criterion=value for each criterion you measured;
without any, the metrics are simulated and the result says so.

The output itself is read from --output-file, or stdin when that is "-".`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var (
	scoresFlag     []string
	outputFileFlag string
)

func init() {
	addProjectFlags(evaluateCmd)
	evaluateCmd.Flags().IntVarP(&stageFlag, "stage", "s", 0, "stage number (0-11)")
	evaluateCmd.Flags().StringArrayVar(&scoresFlag, "score", nil, "criterion score as name=value in [0,1] (repeatable)")
	evaluateCmd.Flags().StringVar(&outputFileFlag, "output-file", "", `file holding the stage output ("-" for stdin)`)
	_ = evaluateCmd.MarkFlagRequired("stage")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
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
	raw, err := pairs("--score", scoresFlag)
	if err != nil {
		return err
	}
	scores, err := parseScores(raw)
	if err != nil {
		return err
	}
	text, err := readOutput(cmd)
	if err != nil {
		return err
	}

	res := newEngine(cmd, cfg).Evaluate(cmd.Context(), "", pr, stage, text, scores)
	return output(cmd, templates.Evaluation, templates.EvaluationData{Result: res}, res)
}

// parseScores converts name=value pairs into criterion scores.
func parseScores(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		v, err := cast.ToFloat64E(raw[name])
		if err != nil {
			return nil, fmt.Errorf("--score %s: %q is not a number", name, raw[name])
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("--score %s: %g is outside [0,1]", name, v)
		}
		out[name] = v
	}
	return out, nil
}

// pairs splits name=value arguments. A repeated name keeps the last value.
func pairs(flag string, args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%s %q: expected name=value", flag, a)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func readOutput(cmd *cobra.Command) (string, error) {
	switch outputFileFlag {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(outputFileFlag)
		if err != nil {
			return "", fmt.Errorf("reading output file: %w", err)
		}
		return string(data), nil
	}
}
