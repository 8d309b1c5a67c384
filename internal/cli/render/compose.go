package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ComposeRenderer handles rendering of compose runs
type ComposeRenderer struct {
	out io.Writer
}

// NewComposeRenderer creates a new compose renderer
func NewComposeRenderer(out io.Writer) *ComposeRenderer {
	return &ComposeRenderer{
		out: out,
	}
}

// GetWriter returns the io.Writer used by this renderer
func (r *ComposeRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderComposeResult renders the result of a compose run
func (r *ComposeRenderer) RenderComposeResult(result *usecase.ComposeResult) error {
	// Only show summary since plan and results are rendered in real-time
	r.renderSummary(result)
	return nil
}

// RenderExecutionPlan displays the execution plan
func (r *ComposeRenderer) RenderExecutionPlan(plan *usecase.ExecutionPlan) {
	fmt.Fprintf(r.out, "\n🎯 Composing %s\n", plan.Group)

	color.New(color.Bold).Fprintf(r.out, "📋 Execution Plan:\n")
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	for i, step := range plan.Components {
		fmt.Fprintf(r.out, "%d. ", i+1)
		color.New(color.FgCyan).Fprintf(r.out, "%s", step.Name)

		if step.Contract != step.Name {
			fmt.Fprintf(r.out, " → ")
			color.New(color.FgGreen).Fprintf(r.out, "%s", step.Contract)
		}

		if len(step.Dependencies) > 0 {
			color.New(color.FgHiBlack).Fprintf(r.out, " (depends on: %v)", step.Dependencies)
		}

		if len(step.Args) > 0 {
			fmt.Fprintln(r.out)
			color.New(color.FgYellow).Fprintf(r.out, "   Args: %s", formatArgs(step.Args))
		}

		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
}

// RenderStepResult renders a single step result
func (r *ComposeRenderer) RenderStepResult(stepResult *usecase.StepResult) {
	switch {
	case stepResult.Error != nil:
		color.New(color.FgRed).Fprintf(r.out, "❌ Failed: %v\n", stepResult.Error)
	case stepResult.Deploy == nil:
	case stepResult.Deploy.DryRun:
		color.New(color.FgYellow).Fprintf(r.out, "✓ Calldata built (%d felts)\n", len(stepResult.Deploy.Args.Calldata))
	case stepResult.Deploy.Deploy != nil:
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s at %s\n",
			stepResult.Step.Contract, stepResult.Deploy.Deploy.Address.Hex())
		if v := stepResult.Deploy.Verification; v != nil {
			fmt.Fprintf(r.out, "  Verification: %s\n", v.Status)
		}
		for _, w := range stepResult.Deploy.Warnings {
			fmt.Fprintf(r.out, "  %s\n", FormatWarning(w))
		}
	}
}

// renderSummary displays the final summary
func (r *ComposeRenderer) renderSummary(result *usecase.ComposeResult) {
	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("═", 70))

	total := len(result.Plan.Components)
	switch {
	case result.Aborted:
		color.New(color.FgYellow, color.Bold).Fprintln(r.out, "Compose cancelled")
	case result.Success:
		color.New(color.FgGreen, color.Bold).Fprintf(r.out,
			"🎉 Successfully composed %s deployment\n", result.Plan.Group)

		fmt.Fprintf(r.out, "\n📊 Summary:\n")
		fmt.Fprintf(r.out, "  • Steps executed: %d/%d\n", len(result.ExecutedSteps), total)
		if len(result.SkippedSteps) > 0 {
			fmt.Fprintf(r.out, "  • Skipped (already done): %s\n", strings.Join(result.SkippedSteps, ", "))
		}
	default:
		color.New(color.FgRed, color.Bold).Fprintf(r.out, "❌ Compose failed\n")

		if result.FailedStep != nil {
			fmt.Fprintf(r.out, "\n📊 Summary:\n")
			fmt.Fprintf(r.out, "  • Failed at step: %s\n", result.FailedStep.Step.Name)
			fmt.Fprintf(r.out, "  • Steps completed: %d/%d\n",
				len(result.SkippedSteps)+len(result.ExecutedSteps)-1, total)
			if result.FailedStep.Error != nil {
				fmt.Fprintf(r.out, "  • Error: %v\n", result.FailedStep.Error)
			}
			fmt.Fprintln(r.out, "\nRun again with --resume to continue from the failed step")
		}
	}
}

func formatArgs(args map[string]string) string {
	keys := sortedKeys(args)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + args[k]
	}
	return strings.Join(parts, " ")
}
