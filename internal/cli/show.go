package cli

import (
	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [contract]",
		Short: "Show the stored deployment summary of a contract",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contract, err := contractArg(cmd.Context(), app, args, "Select contract")
			if err != nil {
				return err
			}

			result, err := app.ShowSummary.Run(cmd.Context(), contract)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.Summary)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderSummary(result)
		},
	}
}
