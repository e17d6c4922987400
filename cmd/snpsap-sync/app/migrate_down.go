package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Migrate the database down",
	Long: `Migrate the database schema down by reverting migrations.
WARNING: This operation can result in data loss. Use with caution.

Examples:
  # Migrate down by 1 step
  snpsap-sync migrate down --num-steps 1 --yes

  # Migrate down all the way (WARNING: destroys all data)
  snpsap-sync migrate down --yes`,
	RunE: runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	_, m, err := newMigrator()
	if err != nil {
		return err
	}

	if !yes {
		var prompt string
		if numSteps == 0 {
			prompt = "WARNING: This will migrate down ALL steps and may result in complete data loss. Continue?"
		} else {
			prompt = fmt.Sprintf("WARNING: This will migrate down %d step(s) and may result in data loss. Continue?", numSteps)
		}
		if !confirm(prompt) {
			slog.Info("Migration cancelled by user")
			return nil
		}
	}

	if numSteps == 0 {
		slog.Warn("Migrating down all steps, this will remove all schema!")
		err = m.Down()
	} else {
		slog.Info("Migrating down", "steps", numSteps)
		if numSteps > math.MaxInt {
			return fmt.Errorf("number of steps exceeds maximum allowed value")
		}
		err = m.Steps(-1 * int(numSteps)) // #nosec G115 -- overflow checked above
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("No migrations to revert, database is already at the oldest version")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Migration completed successfully")
	displayMigrationVersion(m, numSteps)
	return nil
}
