package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

func init() {
	color.NoColor = true
}

var kycSpec = &models.ContractSpec{
	Name:     "InheritXKYC",
	Artifact: "inheritx_contracts_InheritXKYC",
	Output:   "kyc_deployment.json",
}

func kycArgs() *models.ConstructorArgs {
	admin := domain.MustParseFelt("0x123")
	return &models.ConstructorArgs{
		Args: []models.ResolvedArg{{
			Name:   "admin",
			Type:   "core::starknet::contract_address::ContractAddress",
			Value:  "0x123",
			Source: models.ArgSourceEnv,
			Detail: "ADMIN_ADDRESS",
			Felts:  []domain.Felt{admin},
		}},
		Calldata: []domain.Felt{admin},
	}
}

func TestNetworkDisplayName(t *testing.T) {
	assert.Equal(t, "Sepolia (SN_SEPOLIA)", NetworkDisplayName(&config.Network{Name: "sepolia", ChainID: "SN_SEPOLIA"}))
	assert.Equal(t, "Devnet", NetworkDisplayName(&config.Network{Name: "devnet"}))
	assert.Equal(t, "unknown", NetworkDisplayName(nil))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ Deployment failed", FormatError("deployment failed"))
}

func TestDeployRenderer_Calldata(t *testing.T) {
	var buf bytes.Buffer
	r := NewDeployRenderer(&buf)

	require.NoError(t, r.RenderCalldata(&usecase.BuildCalldataResult{
		Contract: kycSpec,
		Args:     kycArgs(),
		Warnings: []string{"owner is not a constructor input of InheritXKYC and was ignored"},
	}))

	out := buf.String()
	assert.Contains(t, out, "InheritXKYC (inheritx_contracts_InheritXKYC)")
	assert.Contains(t, out, "ContractAddress")
	assert.Contains(t, out, "env (ADMIN_ADDRESS)")
	assert.Contains(t, out, "Calldata (1 felts): [291]")
	assert.Contains(t, out, "owner is not a constructor input")
}

func TestDeployRenderer_Result(t *testing.T) {
	var buf bytes.Buffer
	r := NewDeployRenderer(&buf)

	require.NoError(t, r.RenderDeployResult(&usecase.DeployContractResult{
		Contract: kycSpec,
		Summary: &models.Summary{
			Network:         "sepolia",
			ContractName:    "InheritXKYC",
			ClassHash:       "0xc1",
			ContractAddress: "0xa11ce",
			Tx:              models.SummaryTx{Deploy: "0xd2"},
			ConstructorArgs: []string{"291"},
			Verification:    &models.VerificationInfo{Status: models.VerificationMismatch, Detail: "get_admin returned 0x1, expected 0x123"},
		},
		SummaryPath: "/out/kyc_deployment.json",
		Warnings:    []string{"admin mismatch: get_admin returned 0x1, expected 0x123"},
	}))

	out := buf.String()
	assert.Contains(t, out, "0xa11ce")
	assert.Contains(t, out, "already declared")
	assert.Contains(t, out, "Verification: Mismatch")
	assert.Contains(t, out, "Summary written to /out/kyc_deployment.json")
	assert.Contains(t, out, "⚠️  admin mismatch")
}

func TestDeployRenderer_DryRunAndAborted(t *testing.T) {
	var buf bytes.Buffer
	r := NewDeployRenderer(&buf)

	require.NoError(t, r.RenderDeployResult(&usecase.DeployContractResult{
		Contract: kycSpec,
		Args:     kycArgs(),
		Network:  &config.Network{Name: "sepolia"},
		DryRun:   true,
	}))
	assert.Contains(t, buf.String(), "Dry run on Sepolia: nothing was submitted")

	buf.Reset()
	require.NoError(t, r.RenderDeployResult(&usecase.DeployContractResult{Aborted: true}))
	assert.Equal(t, "Deployment cancelled\n", buf.String())
}

func TestContractsRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewContractsRenderer(&buf)

	require.NoError(t, r.RenderContractList(&usecase.ListContractsResult{
		Contracts: []usecase.ContractStatus{
			{Spec: *kycSpec, ArtifactsPresent: true, Summary: &models.Summary{ContractAddress: "0xa11ce", Network: "sepolia"}},
			{Spec: models.ContractSpec{Name: "InheritXPlans", Output: "core_plans_deployment.json"}},
		},
		Deployed:  1,
		Buildable: 1,
	}))

	out := buf.String()
	assert.Contains(t, out, "InheritXKYC")
	assert.Contains(t, out, "0xa11ce")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "2 contract(s), 1 with artifacts, 1 deployed")

	buf.Reset()
	require.NoError(t, r.RenderContractList(&usecase.ListContractsResult{}))
	assert.Equal(t, "No contracts configured\n", buf.String())
}

func TestComposeRenderer_Summary(t *testing.T) {
	plan := &usecase.ExecutionPlan{Group: "inheritx", Components: []*usecase.ExecutionStep{
		{Name: "InheritXPlans", Contract: "InheritXPlans"},
		{Name: "ops", Contract: "InheritXOperations", Args: map[string]string{"dex_router": "0x1"}},
	}}

	var buf bytes.Buffer
	r := NewComposeRenderer(&buf)
	r.RenderExecutionPlan(plan)
	assert.Contains(t, buf.String(), "2. ops → InheritXOperations")
	assert.Contains(t, buf.String(), "Args: dex_router=0x1")

	buf.Reset()
	failed := &usecase.StepResult{Step: plan.Components[1], Error: errors.New("deployment failed")}
	require.NoError(t, r.RenderComposeResult(&usecase.ComposeResult{
		Plan:          plan,
		ExecutedSteps: []*usecase.StepResult{{Step: plan.Components[0]}, failed},
		FailedStep:    failed,
	}))
	out := buf.String()
	assert.Contains(t, out, "Compose failed")
	assert.Contains(t, out, "Failed at step: ops")
	assert.Contains(t, out, "Steps completed: 1/2")
	assert.Contains(t, out, "--resume")

	buf.Reset()
	require.NoError(t, r.RenderComposeResult(&usecase.ComposeResult{
		Plan:          plan,
		ExecutedSteps: []*usecase.StepResult{{Step: plan.Components[1]}},
		SkippedSteps:  []string{"InheritXPlans"},
		Success:       true,
	}))
	assert.Contains(t, buf.String(), "Skipped (already done): InheritXPlans")
}

func TestNewDeployJSON(t *testing.T) {
	out := NewDeployJSON(&usecase.DeployContractResult{
		Contract: kycSpec,
		Network:  &config.Network{Name: "sepolia"},
		Args:     kycArgs(),
		DryRun:   true,
	})
	require.NotNil(t, out.Calldata)
	assert.Equal(t, []string{"291"}, out.Calldata.Calldata)
	assert.Equal(t, "env", out.Calldata.Args[0].Source)

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, out))
	assert.Contains(t, buf.String(), `"felts": [
          "0x123"
        ]`)
}
