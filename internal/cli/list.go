package cli

import (
	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
)

type listEntryJSON struct {
	Contract  string `json:"contract"`
	Artifact  string `json:"artifact"`
	Output    string `json:"output"`
	Artifacts bool   `json:"artifactsPresent"`
	Address   string `json:"address,omitempty"`
	Network   string `json:"network,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contracts with artifact and deployment status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListContracts.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				entries := make([]listEntryJSON, 0, len(result.Contracts))
				for _, c := range result.Contracts {
					e := listEntryJSON{
						Contract:  c.Spec.Name,
						Artifact:  c.Spec.Artifact,
						Output:    c.SummaryPath,
						Artifacts: c.ArtifactsPresent,
						Error:     c.SummaryError,
					}
					if c.Summary != nil {
						e.Address = c.Summary.ContractAddress
						e.Network = c.Summary.Network
					}
					entries = append(entries, e)
				}
				return render.RenderJSON(cmd.OutOrStdout(), entries)
			}

			return render.NewContractsRenderer(cmd.OutOrStdout()).RenderContractList(result)
		},
	}
}
