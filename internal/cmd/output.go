package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IlumCI/HACF/internal/config"
	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/templates"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var (
	formatFlag       string
	verboseFlag      bool
	projectIDFlag    string
	metadataFlag     string
	metadataFileFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", FormatMarkdown, "output format: markdown, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log engine activity to stderr")
}

// addProjectFlags declares the flags that describe a project.
func addProjectFlags(c *cobra.Command) {
	c.Flags().StringVar(&projectIDFlag, "project-id", "", "project identifier")
	c.Flags().StringVarP(&metadataFlag, "metadata", "m", "", "project metadata as a JSON object")
	c.Flags().StringVar(&metadataFileFlag, "metadata-file", "", "read project metadata from a JSON or YAML file")
}

// readProject builds the project from the flags. Unreadable inline
// metadata is passed through for the engine to default; a metadata file
// that cannot be read is an error.
func readProject() (*project.Project, error) {
	if metadataFileFlag == "" {
		return project.FromJSON(projectIDFlag, metadataFlag), nil
	}
	if metadataFlag != "" {
		return nil, fmt.Errorf("use either --metadata or --metadata-file, not both")
	}

	data, err := os.ReadFile(metadataFileFlag)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(metadataFileFlag)) {
	case ".yaml", ".yml":
		var md project.Metadata
		if err := yaml.Unmarshal(data, &md); err != nil {
			return nil, fmt.Errorf("parsing metadata file: %w", err)
		}
		return project.New(projectIDFlag, md), nil
	default:
		return project.FromJSON(projectIDFlag, string(data)), nil
	}
}

// loadConfig reads the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newEngine builds a stateless engine for one-shot commands.
func newEngine(cmd *cobra.Command, cfg *config.Config) *engine.Engine {
	logger := logging.Nop()
	if verboseFlag {
		logger = logging.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	}
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMemoryLimits(cfg.Memory.DefaultLimit, cfg.Memory.SummaryLimit),
	}
	if cfg.Planner.Seed != 0 {
		opts = append(opts, engine.WithRandom(sequencer.NewRandom(cfg.Planner.Seed)))
	}
	return engine.New(opts...)
}

// output writes data in the selected format. Markdown renders view with
// the named template; JSON and YAML encode data.
func output(cmd *cobra.Command, tmpl string, view, data any) error {
	w := cmd.OutOrStdout()
	switch strings.ToLower(formatFlag) {
	case FormatMarkdown, "md", "":
		r, err := templates.NewRenderer()
		if err != nil {
			return err
		}
		text, err := r.Render(tmpl, view)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: use markdown, json or yaml", formatFlag)
	}
}
