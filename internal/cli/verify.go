package cli

import (
	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

type verifyJSON struct {
	Contract     string                   `json:"contract"`
	Address      string                   `json:"address"`
	Verification *models.VerificationInfo `json:"verification"`
	Warnings     []string                 `json:"warnings,omitempty"`
}

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [contract]",
		Short: "Re-check a stored deployment against the node",
		Long: `Read the stored summary of a contract, then check the class hash at its
address and compare the admin getter with the recorded admin argument.

Findings are reported as warnings; the command only fails when the summary
cannot be read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contract, err := contractArg(cmd.Context(), app, args, "Select contract to verify")
			if err != nil {
				return err
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), contract)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), verifyJSON{
					Contract:     result.Contract.Name,
					Address:      result.Summary.ContractAddress,
					Verification: result.Info,
					Warnings:     result.Warnings,
				})
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderVerification(result)
		},
	}
}
