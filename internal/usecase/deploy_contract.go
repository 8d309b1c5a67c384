package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// DeployContractParams contains parameters for deploying one contract
type DeployContractParams struct {
	Contract   string
	Overrides  map[string]string
	DryRun     bool
	SkipVerify bool
	StrictDeps bool
	// SkipConfirm is set by callers that already asked, e.g. compose
	SkipConfirm bool
}

// DeployContractResult contains the result of a deployment run. Fields are
// filled as far as the run got.
type DeployContractResult struct {
	Contract     *models.ContractSpec
	Network      *config.Network
	ChainID      string
	Artifacts    *models.ArtifactPair
	Args         *models.ConstructorArgs
	Deploy       *models.DeployResult
	Receipt      *models.Receipt
	Verification *models.VerificationInfo
	Summary      *models.Summary
	SummaryPath  string
	DryRun       bool
	Aborted      bool
	Warnings     []string
}

// DeployContract is the deployment runner: connect, load artifacts, encode
// the constructor, declare and deploy, verify, persist. Only the first four
// steps can fail the run.
type DeployContract struct {
	config   *config.RuntimeConfig
	node     StarknetNode
	deployer Deployer
	calldata *BuildCalldata
	verifier *AdminVerifier
	store    SummaryStore
	confirm  Confirmer
	progress ProgressSink
	log      *slog.Logger
	now      func() time.Time
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	node StarknetNode,
	deployer Deployer,
	calldata *BuildCalldata,
	verifier *AdminVerifier,
	store SummaryStore,
	confirm Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployContract{
		config:   cfg,
		node:     node,
		deployer: deployer,
		calldata: calldata,
		verifier: verifier,
		store:    store,
		confirm:  confirm,
		progress: progress,
		log:      log.With("component", "DeployContract"),
		now:      time.Now,
	}
}

// Run executes the deployment runner for a single contract
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	result := &DeployContractResult{
		Network: uc.config.Network,
		DryRun:  params.DryRun,
	}

	// Step 1: connectivity and account
	if err := uc.connect(ctx, params, result); err != nil {
		return result, err
	}

	// Steps 2 and 3: artifacts and calldata
	built, err := uc.calldata.Run(ctx, BuildCalldataParams{
		Contract:   params.Contract,
		Overrides:  params.Overrides,
		StrictDeps: params.StrictDeps || uc.config.StrictDeps,
	})
	if err != nil {
		return result, err
	}
	result.Contract = built.Contract
	result.Artifacts = built.Artifacts
	result.Args = built.Args
	for _, w := range built.Warnings {
		uc.warn(result, w)
	}

	if params.DryRun {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Dry run, nothing submitted"})
		return result, nil
	}

	if !params.SkipConfirm && !uc.config.AssumeYes && !uc.config.NonInteractive {
		ok, err := uc.confirm.Confirm(ctx, fmt.Sprintf("Declare and deploy %s on %s", built.Contract.Name, uc.config.Network.Name))
		if err != nil {
			return result, err
		}
		if !ok {
			result.Aborted = true
			uc.progress.Info("Deployment cancelled")
			return result, nil
		}
	}

	// Step 4: declare and deploy
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSubmitting,
		Message: fmt.Sprintf("Declaring and deploying %s", built.Contract.Name),
		Spinner: true,
	})
	deployed, err := uc.deployer.DeclareAndDeploy(ctx, DeclareDeployRequest{
		Contract:  built.Contract.Name,
		Artifacts: built.Artifacts,
		Calldata:  built.Args.Calldata,
	})
	if err != nil {
		uc.progress.Error(fmt.Sprintf("Deployment of %s failed", built.Contract.Name))
		return result, fmt.Errorf("%w: %s: %w", domain.ErrDeploymentFailed, built.Contract.Name, err)
	}
	result.Deploy = deployed
	if deployed.AlreadyDeclared {
		uc.progress.Info(fmt.Sprintf("Class %s already declared, skipped declare", deployed.ClassHash.Hex()))
	}
	uc.progress.Success(fmt.Sprintf("%s deployed at %s", built.Contract.Name, deployed.Address.Hex()))

	// Step 5: best-effort verification
	uc.verify(ctx, params, result)

	// Step 6: persist
	uc.persist(ctx, result)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}

func (uc *DeployContract) connect(ctx context.Context, params DeployContractParams, result *DeployContractResult) error {
	network := uc.config.Network
	if network == nil {
		return fmt.Errorf("no network configured")
	}

	if !params.DryRun && !uc.config.Account.Configured() {
		return fmt.Errorf("%w: set STARKNET_ACCOUNT_ADDRESS and STARKNET_PRIVATE_KEY", domain.ErrMissingCredentials)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s", network.Name),
		Spinner: true,
	})

	chainID, err := uc.node.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s (%s): %w", network.Name, network.RPCURL, err)
	}
	result.ChainID = chainID
	if network.ChainID != "" && chainID != network.ChainID {
		return fmt.Errorf("%w: %s expects %s but the node reports %s",
			domain.ErrNetworkMismatch, network.Name, network.ChainID, chainID)
	}
	uc.log.Debug("connected", "network", network.Name, "chain_id", chainID)

	if params.DryRun {
		return nil
	}
	if err := uc.deployer.PrepareAccount(ctx); err != nil {
		return fmt.Errorf("failed to prepare account %s: %w", uc.config.Account.Address, err)
	}
	return nil
}

func (uc *DeployContract) verify(ctx context.Context, params DeployContractParams, result *DeployContractResult) {
	deployed := result.Deploy

	if !deployed.DeployTxHash.IsZero() {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageConfirming,
			Message: fmt.Sprintf("Waiting for %s", deployed.DeployTxHash.Hex()),
			Spinner: true,
		})
		receipt, err := uc.node.WaitForTransaction(ctx, deployed.DeployTxHash)
		result.Receipt = receipt
		if err != nil {
			uc.warn(result, fmt.Sprintf("could not confirm deploy transaction: %v", err))
		}
	}

	if params.SkipVerify {
		result.Verification = &models.VerificationInfo{
			Status: models.VerificationSkipped,
			Detail: "skipped by operator",
		}
		return
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageVerifying,
		Message: "Checking deployed contract",
		Spinner: true,
	})

	expected := ""
	if arg, ok := result.Args.Get(result.Contract.AdminArgName()); ok && len(arg.Felts) > 0 {
		expected = arg.Felts[0].Hex()
	}
	outcome := uc.verifier.Verify(ctx, VerifyRequest{
		Contract:  result.Contract,
		ABI:       result.Artifacts.ABI,
		Address:   deployed.Address,
		ClassHash: &deployed.ClassHash,
		Expected:  expected,
	})
	result.Verification = outcome.Info
	for _, w := range outcome.Warnings {
		uc.warn(result, w)
	}

	switch outcome.Info.Status {
	case models.VerificationPassed:
		uc.progress.Success(fmt.Sprintf("%s() = %s", outcome.Info.Getter, outcome.Info.Actual))
	case models.VerificationUnavailable:
		uc.progress.Info(outcome.Info.Detail)
	}
}

func (uc *DeployContract) persist(ctx context.Context, result *DeployContractResult) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StagePersisting,
		Message: fmt.Sprintf("Writing %s", result.Contract.Output),
		Spinner: true,
	})

	summary := uc.buildSummary(result)
	result.Summary = summary

	path, err := uc.store.Save(ctx, result.Contract.Output, summary)
	if err != nil {
		uc.warn(result, fmt.Sprintf("deployment succeeded but the summary was not saved: %v", err))
		return
	}
	result.SummaryPath = path
}

func (uc *DeployContract) buildSummary(result *DeployContractResult) *models.Summary {
	deployed := result.Deploy
	return &models.Summary{
		Network:         uc.config.Network.Name,
		Account:         uc.config.Account.Address,
		ContractName:    result.Contract.Name,
		ClassHash:       deployed.ClassHash.Hex(),
		ContractAddress: deployed.Address.Hex(),
		Tx: models.SummaryTx{
			Declare: deployed.DeclareTx(),
			Deploy:  deployed.DeployTxHash.Hex(),
		},
		ConstructorArgs:   domain.FeltsToDec(result.Args.Calldata),
		ConstructorInputs: result.Args.Inputs(),
		RPCURL:            uc.config.Network.RPCURL,
		ChainID:           result.ChainID,
		Verification:      result.Verification,
		Timestamp:         models.FormatTimestamp(uc.now()),
	}
}

func (uc *DeployContract) warn(result *DeployContractResult, message string) {
	result.Warnings = append(result.Warnings, message)
	uc.progress.Warn(message)
}
