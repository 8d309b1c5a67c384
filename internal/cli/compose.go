package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// NewComposeCmd creates the compose command
func NewComposeCmd() *cobra.Command {
	var (
		resume     bool
		dryRun     bool
		skipVerify bool
		strictDeps bool
	)

	cmd := &cobra.Command{
		Use:   "compose [plan.yaml]",
		Short: "Deploy several contracts in dependency order",
		Long: `Deploy several contracts in dependency order.

Without a plan file every contract of the table is deployed, ordered by
depends_on. A plan file selects components and may override arguments:

  group: inheritx
  components:
    plans:
      contract: InheritXPlans
    operations:
      contract: InheritXOperations
      deps:
        - plans
      args:
        dex_router: "0x0123"

The run stops at the first failing component. Progress is saved under
.ixdeploy in the output directory; --resume continues after the last
completed component.`,
		Example: `  # Deploy everything on sepolia
  ixdeploy compose --network sepolia

  # Continue after a failure
  ixdeploy compose --resume`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ComposeParams{
				Resume:     resume,
				DryRun:     dryRun,
				SkipVerify: skipVerify,
				StrictDeps: strictDeps,
			}
			if len(args) > 0 {
				params.PlanPath = args[0]
			}

			result, err := app.ComposeDeployment.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.RenderJSON(cmd.OutOrStdout(), newComposeJSON(result)); err != nil {
					return err
				}
			} else if err := render.NewComposeRenderer(cmd.OutOrStdout()).RenderComposeResult(result); err != nil {
				return err
			}

			if !result.Success && !result.Aborted {
				return fmt.Errorf("compose failed at %s: %w", result.FailedStep.Step.Name, result.FailedStep.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "Continue the previous run of this plan")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and encode every component without submitting")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip the post-deploy admin checks")
	cmd.Flags().BoolVar(&strictDeps, "strict-deps", false, "Fail instead of using a placeholder when a dependency is not deployed")

	return cmd
}

type composeStepJSON struct {
	Name   string             `json:"name"`
	Error  string             `json:"error,omitempty"`
	Deploy *render.DeployJSON `json:"deploy,omitempty"`
}

type composeJSON struct {
	Group    string            `json:"group"`
	Success  bool              `json:"success"`
	Aborted  bool              `json:"aborted,omitempty"`
	Skipped  []string          `json:"skipped,omitempty"`
	Executed []composeStepJSON `json:"executed"`
}

func newComposeJSON(result *usecase.ComposeResult) *composeJSON {
	out := &composeJSON{
		Group:    result.Plan.Group,
		Success:  result.Success,
		Aborted:  result.Aborted,
		Skipped:  result.SkippedSteps,
		Executed: make([]composeStepJSON, 0, len(result.ExecutedSteps)),
	}
	for _, step := range result.ExecutedSteps {
		s := composeStepJSON{Name: step.Step.Name}
		if step.Error != nil {
			s.Error = step.Error.Error()
		}
		if step.Deploy != nil {
			s.Deploy = render.NewDeployJSON(step.Deploy)
		}
		out.Executed = append(out.Executed, s)
	}
	return out
}
