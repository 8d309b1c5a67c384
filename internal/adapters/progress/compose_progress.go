package progress

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ComposeProgress renders plan-level compose events. Per-step runner stages
// go to the SpinnerProgressReporter shared with the deploy use case.
type ComposeProgress struct {
	composeRenderer *render.ComposeRenderer
	spinner         *SpinnerProgressReporter

	planRendered bool
}

// NewComposeProgress creates a new compose progress reporter
func NewComposeProgress(composeRenderer *render.ComposeRenderer, spinner *SpinnerProgressReporter) *ComposeProgress {
	return &ComposeProgress{
		composeRenderer: composeRenderer,
		spinner:         spinner,
	}
}

// OnProgress handles progress events for compose operations
func (p *ComposeProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StagePlanCreated:
		if plan, ok := event.Metadata.(*usecase.ExecutionPlan); ok && !p.planRendered {
			p.composeRenderer.RenderExecutionPlan(plan)
			p.planRendered = true
		}

	case usecase.StageResumed:
		p.spinner.stop()
		color.New(color.FgYellow).Fprintf(p.composeRenderer.GetWriter(),
			"Resuming from step %d/%d\n", event.Current+1, event.Total)

	case usecase.StageStepStarting:
		p.spinner.stop()
		fmt.Fprintf(p.composeRenderer.GetWriter(), "\n[%d/%d] Deploying %s\n",
			event.Current, event.Total, event.Message)

	case usecase.StageStepDone:
		p.spinner.stop()
		if stepResult, ok := event.Metadata.(*usecase.StepResult); ok {
			p.composeRenderer.RenderStepResult(stepResult)
		}

	case usecase.StageComposeDone:
		p.spinner.stop()

	default:
		p.spinner.OnProgress(ctx, event)
	}
}

// Info forwards info messages to the spinner
func (p *ComposeProgress) Info(message string) {
	p.spinner.Info(message)
}

// Success forwards success messages to the spinner
func (p *ComposeProgress) Success(message string) {
	p.spinner.Success(message)
}

// Warn forwards warnings to the spinner
func (p *ComposeProgress) Warn(message string) {
	p.spinner.Warn(message)
}

// Error forwards error messages to the spinner
func (p *ComposeProgress) Error(message string) {
	p.spinner.Error(message)
}

// Ensure ComposeProgress implements ComposeSink
var _ usecase.ComposeSink = (*ComposeProgress)(nil)
