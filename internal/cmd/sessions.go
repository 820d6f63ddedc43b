package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/storage"
	"github.com/IlumCI/HACF/internal/templates"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List stored sessions or show one",
	Long: `List the most recently updated sessions in the data directory, or show a
single session with its stage history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

var (
	sessionStatusFlag string
	sessionLimitFlag  int
)

func init() {
	sessionsCmd.Flags().StringVar(&sessionStatusFlag, "status", "", "only sessions with this status (active, paused, completed, failed)")
	sessionsCmd.Flags().IntVarP(&sessionLimitFlag, "limit", "n", 0, "maximum sessions to list (default storage.max_sessions)")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Disabled {
		return errors.New("storage is disabled")
	}

	store, err := storage.New(storage.Config{DataDir: cfg.Storage.DataDir, MaxSessions: cfg.Storage.MaxSessions})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		sess, err := store.LoadSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output(cmd, templates.Session, templates.SessionData{Session: sess}, sess)
	}

	status := sequencer.Status(sessionStatusFlag)
	if status != "" {
		if err := sequencer.ValidateStatus(status); err != nil {
			return err
		}
	}
	list, err := store.RecentSessions(cmd.Context(), status, sessionLimitFlag)
	if err != nil {
		return err
	}
	if list == nil {
		list = []storage.SessionSummary{}
	}
	return output(cmd, templates.Sessions, list, list)
}
