package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portaudit/checklist-scoring/internal/app"
	"github.com/portaudit/checklist-scoring/internal/config"
	"github.com/portaudit/checklist-scoring/internal/repository"
	"github.com/portaudit/checklist-scoring/internal/service"
)

// NewImportCmd stores a project checklist read from a YAML or JSON file.
func NewImportCmd(load configLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a project checklist into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			project, err := readProjectFile(file)
			if err != nil {
				return err
			}

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

			svc := service.NewScoringService(repository.NewChecklistRepository(db), logger)
			saved, err := svc.ImportProject(cmd.Context(), project)
			if err != nil {
				logger.Error("import failed", zap.String("file", file), zap.Error(err))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "checklist file (YAML or JSON)")
	return cmd
}
