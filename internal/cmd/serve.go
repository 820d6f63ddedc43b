package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/server"
	"github.com/IlumCI/HACF/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Start the MCP server on stdin/stdout. Add it to your MCP client config:

  {
    "mcpServers": {
      "hacf": {
        "command": "hacf",
        "args": ["serve"]
      }
    }
  }

Logs go to hacf.log in the log directory, never to stdout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("metrics-addr", "", "expose prometheus metrics on this address, e.g. 127.0.0.1:9464")
	serveCmd.Flags().Bool("trace", false, "export trace spans")
	serveCmd.Flags().String("trace-file", "", "write spans to this file instead of stderr")
	_ = viper.BindPFlag("tracing.enabled", serveCmd.Flags().Lookup("trace"))
	_ = viper.BindPFlag("tracing.file", serveCmd.Flags().Lookup("trace-file"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		viper.Set("metrics.enabled", true)
		viper.Set("metrics.addr", addr)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.NewFileLogger(cfg.LogDir(), cfg.Log.Level)
	if err != nil {
		log.Printf("WARNING: file logging disabled: %v", err)
		logger, closeLog = logging.Nop(), func() error { return nil }
	}
	defer func() { _ = closeLog() }()

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.Init(cmd.Context(), cfg.Tracing, server.Version)
		if err != nil {
			return fmt.Errorf("starting tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("WARNING: tracing shutdown: %v", err)
			}
		}()
	}

	if cfg.Metrics.Enabled {
		srv, err := metrics.Serve(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		logger.Info("serve: metrics listening", "addr", srv.Addr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	s, cleanup, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// ServeStdio handles SIGINT and SIGTERM itself.
	return mcpserver.ServeStdio(s)
}
