package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// SpinnerProgressReporter shows the deployment runner's steps on a spinner
// line and prints messages above it
type SpinnerProgressReporter struct {
	mu           sync.Mutex
	out          io.Writer
	spinner      *spinner.Spinner
	stages       []stageInfo
	currentStage usecase.DeployStage
}

type stageInfo struct {
	Stage     usecase.DeployStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// runnerStages are the stages shown on the spinner line, in run order
var runnerStages = map[usecase.DeployStage]bool{
	usecase.StageConnecting: true,
	usecase.StageArtifacts:  true,
	usecase.StageCalldata:   true,
	usecase.StageSubmitting: true,
	usecase.StageConfirming: true,
	usecase.StageVerifying:  true,
	usecase.StagePersisting: true,
}

// NewSpinnerProgressReporter creates a reporter on stdout, or on stderr when
// stdout carries JSON
func NewSpinnerProgressReporter(cfg *config.RuntimeConfig) *SpinnerProgressReporter {
	out := io.Writer(os.Stdout)
	if cfg.JSON {
		out = os.Stderr
	}
	return newSpinnerProgressReporter(out)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// OnProgress advances the stage line
func (r *SpinnerProgressReporter) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage == usecase.StageCompleted {
		r.completeCurrentStage()
		r.stages = nil
		r.currentStage = ""
		r.spinner.Stop()
		if event.Message != "" {
			color.New(color.FgCyan).Fprintln(r.out, event.Message)
		}
		return
	}

	if runnerStages[event.Stage] && event.Stage != r.currentStage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stages = append(r.stages, stageInfo{
			Stage:     event.Stage,
			StartTime: time.Now(),
			Status:    "running",
		})
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	if event.Spinner {
		r.spinner.Suffix = " " + r.display()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an informational line
func (r *SpinnerProgressReporter) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Success prints a success line
func (r *SpinnerProgressReporter) Success(message string) {
	r.println(color.New(color.FgGreen), "✓ "+message)
}

// Warn prints a warning line
func (r *SpinnerProgressReporter) Warn(message string) {
	r.println(color.New(color.FgYellow), "⚠️  Warning: "+message)
}

// Error prints an error line
func (r *SpinnerProgressReporter) Error(message string) {
	r.println(color.New(color.FgRed), "❌ "+message)
}

// println pauses the spinner so the message lands on its own line
func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// stop halts the spinner without touching stage history
func (r *SpinnerProgressReporter) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
}

func (r *SpinnerProgressReporter) completeCurrentStage() {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = time.Now()
		r.stages[idx].Status = "completed"
	}
}

// display renders "✓ Connecting (120ms) → ● Loading artifacts (1s): message"
func (r *SpinnerProgressReporter) display() string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		var icon string
		var stageColor *color.Color

		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		default:
			icon = "●"
			stageColor = color.New(color.FgYellow)
		}

		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}
		parts = append(parts, fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration))
	}

	line := strings.Join(parts, " → ")
	if n := len(r.stages); n > 0 && r.stages[n-1].Message != "" {
		line += ": " + r.stages[n-1].Message
	}
	return line
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
