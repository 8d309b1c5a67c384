package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestSpinnerProgressReporter_Messages(t *testing.T) {
	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)

	r.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageConnecting, Message: "Connecting to sepolia", Spinner: true})
	r.Info("Class already declared")
	r.Success("InheritXKYC deployed at 0xa11ce")
	r.Warn("admin mismatch")
	r.Error("Deployment failed")
	r.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageCompleted, Message: "Dry run, nothing submitted"})

	out := buf.String()
	assert.Contains(t, out, "Class already declared\n")
	assert.Contains(t, out, "✓ InheritXKYC deployed at 0xa11ce\n")
	assert.Contains(t, out, "Warning: admin mismatch\n")
	assert.Contains(t, out, "❌ Deployment failed\n")
	assert.Contains(t, out, "Dry run, nothing submitted\n")
}

func TestSpinnerProgressReporter_StageLine(t *testing.T) {
	r := newSpinnerProgressReporter(&bytes.Buffer{})
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageConnecting, Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageArtifacts, Message: "Loading InheritXKYC artifacts", Spinner: true})

	line := r.display()
	assert.Contains(t, line, "✓ Connecting (")
	assert.Contains(t, line, "→ ● Loading artifacts: Loading InheritXKYC artifacts")

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted})
	assert.Empty(t, r.stages)
}

func TestComposeProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewComposeProgress(render.NewComposeRenderer(&buf), newSpinnerProgressReporter(&buf))
	ctx := context.Background()

	plan := &usecase.ExecutionPlan{Group: "inheritx", Components: []*usecase.ExecutionStep{
		{Name: "InheritXPlans", Contract: "InheritXPlans"},
		{Name: "InheritXOperations", Contract: "InheritXOperations", Dependencies: []string{"InheritXPlans"}},
	}}
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StagePlanCreated, Metadata: plan})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StagePlanCreated, Metadata: plan})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageStepStarting, Current: 1, Total: 2, Message: "InheritXPlans"})

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Execution Plan")))
	assert.Contains(t, out, "InheritXOperations")
	assert.Contains(t, out, "depends on: [InheritXPlans]")
	assert.Contains(t, out, "[1/2] Deploying InheritXPlans")
}
