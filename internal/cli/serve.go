package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portaudit/checklist-scoring/internal/app"
	"github.com/portaudit/checklist-scoring/internal/config"
)

// NewServeCmd starts the gRPC server and blocks until it is signalled.
func NewServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC scoring server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			logger, err := config.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			application, err := app.NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("failed to initialize application", zap.Error(err))
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}
