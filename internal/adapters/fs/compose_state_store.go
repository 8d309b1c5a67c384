package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ComposeStateStoreAdapter implements ComposeStateStore using the file system
type ComposeStateStoreAdapter struct {
	stateDir string
}

// NewComposeStateStoreAdapter creates a new ComposeStateStoreAdapter
func NewComposeStateStoreAdapter(cfg *config.RuntimeConfig) *ComposeStateStoreAdapter {
	return &ComposeStateStoreAdapter{
		stateDir: filepath.Join(cfg.OutDir, ".ixdeploy"),
	}
}

// statePath returns the state file for a plan, e.g. compose-full.json
func (s *ComposeStateStoreAdapter) statePath(plan string) string {
	return filepath.Join(s.stateDir, fmt.Sprintf("compose-%s.json", plan))
}

// Load reads the state of a previous run. Returns domain.ErrNotFound if there is none.
func (s *ComposeStateStoreAdapter) Load(_ context.Context, plan string) (*usecase.ComposeState, error) {
	data, err := os.ReadFile(s.statePath(plan))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no previous compose run found for %s", domain.ErrNotFound, plan)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state usecase.ComposeState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if state.ExecutedSteps == nil {
		state.ExecutedSteps = make(map[string]*usecase.StepStateInfo)
	}

	return &state, nil
}

// Save writes the state, creating the directory if needed
func (s *ComposeStateStoreAdapter) Save(_ context.Context, state *usecase.ComposeState) error {
	if err := os.MkdirAll(s.stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.statePath(state.PlanName), data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Ensure ComposeStateStoreAdapter implements ComposeStateStore
var _ usecase.ComposeStateStore = (*ComposeStateStoreAdapter)(nil)
