package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portaudit/checklist-scoring/internal/app"
	"github.com/portaudit/checklist-scoring/internal/config"
)

// NewMigrateCmd creates the checklist schema. Statements are idempotent.
func NewMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the checklist schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			logger, err := config.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			db, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("migrations applied",
				zap.String("driver", cfg.DBDriver),
				zap.String("path", cfg.DBPath))
			return nil
		},
	}
}
