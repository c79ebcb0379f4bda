package cli

import (
	"github.com/spf13/cobra"

	"github.com/portaudit/checklist-scoring/internal/config"
)

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Without a subcommand the server starts.
func NewRootCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:          "checklist-scoring",
		Short:        "Weighted compliance checklist scoring service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().IntVar(&port, "port", 0, "gRPC port (overrides GRPC_PORT)")

	load := func() *config.Config {
		cfg := config.LoadFromEnv()
		if port > 0 {
			cfg.GRPCPort = port
		}
		return cfg
	}

	serve := NewServeCmd(load)
	cmd.RunE = serve.RunE
	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd(load))
	cmd.AddCommand(NewImportCmd(load))
	cmd.AddCommand(NewScoreCmd())
	return cmd
}

type configLoader func() *config.Config
