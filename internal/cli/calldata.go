package cli

import (
	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// NewCalldataCmd creates the calldata command
func NewCalldataCmd() *cobra.Command {
	var (
		argFlags   []string
		strictDeps bool
	)

	cmd := &cobra.Command{
		Use:   "calldata [contract]",
		Short: "Print the resolved constructor arguments and calldata",
		Long: `Resolve and encode the constructor arguments of a contract without
connecting to a node. No credentials are needed.`,
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

			contract, err := contractArg(cmd.Context(), app, args, "Select contract")
			if err != nil {
				return err
			}

			result, err := app.BuildCalldata.Run(cmd.Context(), usecase.BuildCalldataParams{
				Contract:   contract,
				Overrides:  overrides,
				StrictDeps: strictDeps || app.Config.StrictDeps,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewCalldataJSON(result.Contract, result.Args, result.Warnings))
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderCalldata(result)
		},
	}

	cmd.Flags().StringArrayVar(&argFlags, "arg", nil, "Constructor argument override as name=value (repeatable)")
	cmd.Flags().BoolVar(&strictDeps, "strict-deps", false, "Fail instead of using a placeholder when a dependency is not deployed")

	return cmd
}
