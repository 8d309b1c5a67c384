package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

func TestListContracts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.loader.On("Exists", "InheritXKYC").Return(true)
	h.loader.On("Exists", "InheritXPlans").Return(true)
	h.loader.On("Exists", "InheritXOperations").Return(false)

	_, err := h.store.Save(ctx, "kyc_deployment.json", &models.Summary{ContractName: "InheritXKYC", ContractAddress: "0xaaa"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(h.cfg.OutDir, "core_plans_deployment.json"), []byte("{"), 0644))

	result, err := usecase.NewListContracts(h.catalog, h.loader, h.store, discardLogger()).Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Contracts, 3)

	assert.Equal(t, 1, result.Deployed)
	assert.Equal(t, 2, result.Buildable)

	kyc := result.Contracts[0]
	assert.Equal(t, "InheritXKYC", kyc.Spec.Name)
	require.NotNil(t, kyc.Summary)
	assert.Equal(t, "0xaaa", kyc.Summary.ContractAddress)

	plans := result.Contracts[1]
	assert.Nil(t, plans.Summary)
	assert.NotEmpty(t, plans.SummaryError)

	ops := result.Contracts[2]
	assert.False(t, ops.ArtifactsPresent)
	assert.Nil(t, ops.Summary)
	assert.Empty(t, ops.SummaryError)
	assert.Equal(t, filepath.Join(h.cfg.OutDir, "core_operations_deployment.json"), ops.SummaryPath)
}

func TestShowSummary(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	uc := usecase.NewShowSummary(h.catalog, h.store)

	_, err := uc.Run(ctx, "InheritXKYC")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.store.Save(ctx, "kyc_deployment.json", &models.Summary{ContractName: "InheritXKYC", ContractAddress: "0xaaa"})
	require.NoError(t, err)

	result, err := uc.Run(ctx, "kyc")
	require.Error(t, err, "partial names are not accepted")

	result, err = uc.Run(ctx, "InheritXKYC")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", result.Summary.ContractAddress)
	assert.Equal(t, filepath.Join(h.cfg.OutDir, "kyc_deployment.json"), result.Path)
}
