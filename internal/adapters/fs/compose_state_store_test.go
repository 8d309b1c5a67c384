package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

func TestComposeStateStore_RoundTrip(t *testing.T) {
	outDir := t.TempDir()
	store := NewComposeStateStoreAdapter(&config.RuntimeConfig{OutDir: outDir})
	ctx := context.Background()

	_, err := store.Load(ctx, "all")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	plans := &usecase.ExecutionStep{Name: "InheritXPlans", Contract: "InheritXPlans"}
	state := &usecase.ComposeState{
		PlanName:  "all",
		Network:   "sepolia",
		StartedAt: time.Now().Add(-time.Minute),
		Plan: &usecase.ExecutionPlan{Group: "inheritx", Components: []*usecase.ExecutionStep{
			plans,
			{Name: "InheritXOperations", Contract: "InheritXOperations", Dependencies: []string{"InheritXPlans"}},
		}},
		ExecutedSteps: map[string]*usecase.StepStateInfo{
			"InheritXPlans": {Step: plans, Success: true, Address: "0xa11ce"},
		},
		CurrentStepIndex: 1,
		Status:           usecase.ComposeFailed,
	}
	require.NoError(t, store.Save(ctx, state))
	assert.FileExists(t, filepath.Join(outDir, ".ixdeploy", "compose-all.json"))
	assert.False(t, state.UpdatedAt.IsZero())

	loaded, err := store.Load(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", loaded.Network)
	assert.Equal(t, 1, loaded.CurrentStepIndex)
	assert.Equal(t, usecase.ComposeFailed, loaded.Status)
	require.Len(t, loaded.Plan.Components, 2)
	assert.Equal(t, []string{"InheritXPlans"}, loaded.Plan.Components[1].Dependencies)
	assert.Equal(t, "0xa11ce", loaded.ExecutedSteps["InheritXPlans"].Address)
}

func TestComposeStateStore_Corrupt(t *testing.T) {
	outDir := t.TempDir()
	store := NewComposeStateStoreAdapter(&config.RuntimeConfig{OutDir: outDir})

	require.NoError(t, os.MkdirAll(filepath.Join(outDir, ".ixdeploy"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, ".ixdeploy", "compose-full.json"), []byte("{"), 0644))

	_, err := store.Load(context.Background(), "full")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to unmarshal state")
}

func TestComposeStateStore_NilStepsBecomeEmpty(t *testing.T) {
	outDir := t.TempDir()
	store := NewComposeStateStoreAdapter(&config.RuntimeConfig{OutDir: outDir})

	require.NoError(t, os.MkdirAll(filepath.Join(outDir, ".ixdeploy"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, ".ixdeploy", "compose-all.json"),
		[]byte(`{"plan_name":"all","network":"sepolia","status":"running"}`), 0644))

	loaded, err := store.Load(context.Background(), "all")
	require.NoError(t, err)
	assert.NotNil(t, loaded.ExecutedSteps)
}
