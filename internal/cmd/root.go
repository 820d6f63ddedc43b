// Package cmd implements the hacf command line: the MCP server and
// one-shot access to the engine's stateless operations.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IlumCI/HACF/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "hacf",
	Short: "Adaptive sequencing, memory and evaluation engine",
	Long: `HACF plans which workflow stages a project goes through, decides the next
stage from feedback, keeps stage memory and scores stage output.

Run "hacf serve" to expose it as an MCP server over stdio, or use the
subcommands to query the engine directly.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/hacf/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Uint64("seed", 0, "seed for stage selection and simulated metrics (0 = random)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding hacf.db and hacf.log")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("planner.seed", rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("storage.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	// Defaults first so they hold even without a config file.
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	config.BindEnv()

	// A missing config file is fine.
	_ = viper.ReadInConfig()
}
