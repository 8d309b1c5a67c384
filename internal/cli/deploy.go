package cli

import (
	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		argFlags   []string
		dryRun     bool
		skipVerify bool
		strictDeps bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Declare and deploy one contract",
		Long: `Declare and deploy a single contract from the contract table.

The run connects to the node, loads the compiled artifacts, resolves and
encodes the constructor arguments, submits a combined declare-and-deploy,
checks the admin getter and writes the deployment summary.

Constructor arguments come from, in order: --arg overrides, literal table
values, environment variables, earlier deployment summaries and defaults.
When a dependency summary is missing a placeholder is used and a warning is
printed, unless --strict-deps is set.`,
		Example: `  # Deploy the KYC contract on sepolia
  ixdeploy deploy InheritXKYC --network sepolia

  # Show the calldata without submitting
  ixdeploy deploy InheritXOperations --dry-run

  # Override a constructor argument
  ixdeploy deploy InheritXOperations --arg dex_router=0x04270219d365d6b017231b52e92b3fb5d7c8378b05e9abc97724537a80e93b0f`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			overrides, err := parseArgOverrides(argFlags)
			if err != nil {
				return err
			}

			contract, err := contractArg(cmd.Context(), app, args, "Select contract to deploy")
			if err != nil {
				return err
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Contract:   contract,
				Overrides:  overrides,
				DryRun:     dryRun,
				SkipVerify: skipVerify,
				StrictDeps: strictDeps,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewDeployJSON(result))
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeployResult(result)
		},
	}

	cmd.Flags().StringArrayVar(&argFlags, "arg", nil, "Constructor argument override as name=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and encode calldata without submitting")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip the post-deploy admin check")
	cmd.Flags().BoolVar(&strictDeps, "strict-deps", false, "Fail instead of using a placeholder when a dependency is not deployed")

	return cmd
}
