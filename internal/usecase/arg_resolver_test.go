package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

func TestArgResolver_SourceOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.store.Save(ctx, "core_plans_deployment.json", &models.Summary{
		ContractName:    "InheritXPlans",
		ContractAddress: "0x9a5",
	})
	require.NoError(t, err)

	spec := &models.ContractSpec{
		Name:   "Probe",
		Output: "probe_deployment.json",
		Args: []models.ArgSpec{
			{Name: "overridden", Env: "PROBE_A", Value: "0x1"},
			{Name: "literal", Env: "PROBE_A", Value: "0x2"},
			{Name: "from_env", Env: "PROBE_A", Default: "0x3"},
			{Name: "blank_env", Env: "PROBE_BLANK", Default: "0x4"},
			{Name: "from_deployment", Deployment: "InheritXPlans", Fallback: "0x0"},
			{Name: "from_default", Env: "PROBE_UNSET", Default: "0x5"},
			{Name: "copied", Env: "PROBE_UNSET", DefaultFrom: "from_env"},
		},
	}
	h.env["PROBE_A"] = " 0xa "
	h.env["PROBE_BLANK"] = "  "

	resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
	resolved, err := resolver.Resolve(ctx, spec, usecase.ResolveArgsParams{
		Overrides: map[string]string{"overridden": "0xff", "extra": "7"},
	})
	require.NoError(t, err)
	assert.Empty(t, resolved.Warnings)

	tests := []struct {
		name   string
		value  any
		source models.ArgSource
		detail string
	}{
		{"overridden", "0xff", models.ArgSourceOverride, ""},
		{"literal", "0x2", models.ArgSourceLiteral, ""},
		{"from_env", "0xa", models.ArgSourceEnv, "PROBE_A"},
		{"blank_env", "0x4", models.ArgSourceDefault, ""},
		{"from_deployment", "0x9a5", models.ArgSourceDeployment, "InheritXPlans"},
		{"from_default", "0x5", models.ArgSourceDefault, ""},
		{"copied", "0xa", models.ArgSourceDefaultFrom, "from_env"},
		{"extra", "7", models.ArgSourceOverride, ""},
	}
	require.Len(t, resolved.Args, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg := resolved.Args[i]
			assert.Equal(t, tt.name, arg.Name)
			assert.Equal(t, tt.value, arg.Value)
			assert.Equal(t, tt.source, arg.Source)
			assert.Equal(t, tt.detail, arg.Detail)
		})
	}
}

func TestArgResolver_DeploymentFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("summary without address falls back", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.store.Save(ctx, "core_plans_deployment.json", &models.Summary{ContractName: "InheritXPlans"})
		require.NoError(t, err)

		resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
		spec, _ := h.catalog.Get("InheritXOperations")
		resolved, err := resolver.Resolve(ctx, spec, usecase.ResolveArgsParams{})
		require.NoError(t, err)
		require.Len(t, resolved.Warnings, 1)
		assert.Contains(t, resolved.Warnings[0], "no contract address")
	})

	t.Run("no fallback falls through to default", func(t *testing.T) {
		h := newHarness(t)
		spec := &models.ContractSpec{
			Name: "Probe",
			Args: []models.ArgSpec{{Name: "dep", Deployment: "InheritXKYC", Default: "0x5"}},
		}
		resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
		resolved, err := resolver.Resolve(ctx, spec, usecase.ResolveArgsParams{})
		require.NoError(t, err)
		assert.Equal(t, "0x5", resolved.Args[0].Value)
		assert.Len(t, resolved.Warnings, 1)
	})

	t.Run("strict", func(t *testing.T) {
		h := newHarness(t)
		resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
		spec, _ := h.catalog.Get("InheritXOperations")
		_, err := resolver.Resolve(ctx, spec, usecase.ResolveArgsParams{StrictDeps: true})
		assert.ErrorIs(t, err, domain.ErrDependencyUnresolved)
	})

	t.Run("override skips lookup", func(t *testing.T) {
		h := newHarness(t)
		resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
		spec, _ := h.catalog.Get("InheritXOperations")
		resolved, err := resolver.Resolve(ctx, spec, usecase.ResolveArgsParams{
			Overrides:  map[string]string{"core_contract": "0x42"},
			StrictDeps: true,
		})
		require.NoError(t, err)
		assert.Empty(t, resolved.Warnings)
	})
}

func TestArgResolver_Missing(t *testing.T) {
	h := newHarness(t)
	delete(h.env, "ADMIN_ADDRESS")
	resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
	spec, _ := h.catalog.Get("InheritXKYC")

	_, err := resolver.Resolve(context.Background(), spec, usecase.ResolveArgsParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
	assert.Contains(t, err.Error(), "set ADMIN_ADDRESS or pass --arg admin=<value>")
}

func TestBuildCalldata_IgnoresUnusedArgs(t *testing.T) {
	h := newHarness(t)
	result, err := h.buildCalldata().Run(context.Background(), usecase.BuildCalldataParams{
		Contract:  "InheritXKYC",
		Overrides: map[string]string{"bogus": "1"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Args.Calldata, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bogus is not a constructor input")
}
