package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chadmayfield/weatherd/internal/config"
	"github.com/chadmayfield/weatherd/internal/store"
)

var dryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `migrate brings the configured database up to the current schema.
With --dry-run, the pending migration files are listed without being
applied.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if dryRun {
		pending, err := store.PendingMigrations(cfg.Storage.Driver, cfg.DSN())
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			slog.Info("schema up to date", "driver", cfg.Storage.Driver)
			return nil
		}
		for _, name := range pending {
			slog.Info("pending migration", "name", name)
		}
		return nil
	}

	// Opening the store applies any pending migrations.
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	slog.Info("migrations complete", "driver", cfg.Storage.Driver)
	return nil
}
