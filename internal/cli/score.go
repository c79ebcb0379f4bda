package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// NewScoreCmd scores a checklist file offline and prints the result as JSON.
func NewScoreCmd() *cobra.Command {
	var (
		file     string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a checklist file without touching the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			project, err := readProjectFile(file)
			if err != nil {
				return err
			}

			var out any
			if detailed {
				out = scoring.AggregateProjectDetailed(project.Modules)
			} else {
				summary := scoring.AggregateProject(project.Modules)
				out = struct {
					scoring.ProjectScore
					Band scoring.Band `json:"faixa"`
				}{summary, scoring.BandFor(summary.Percent)}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "checklist file (YAML or JSON)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "print the per-module breakdown")
	return cmd
}
