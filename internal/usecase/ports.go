package usecase

import (
	"context"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ContractCatalog gives access to the resolved contract table
type ContractCatalog interface {
	// Get returns the entry with the given name (case-insensitive). Unknown
	// names yield a domain.UnknownContractErr carrying suggestions.
	Get(name string) (*models.ContractSpec, error)
	All() []models.ContractSpec
}

// ArtifactLoader reads compiled contract classes from disk
type ArtifactLoader interface {
	Load(ctx context.Context, spec *models.ContractSpec) (*models.ArtifactPair, error)
	Exists(spec *models.ContractSpec) bool
}

// CalldataEncoder serializes constructor values against a contract ABI
type CalldataEncoder interface {
	// EncodeConstructor orders args by the ABI constructor inputs and fills in
	// their Type and Felts. Args the constructor does not take are dropped.
	EncodeConstructor(abi models.ABI, args []models.ResolvedArg) (*models.ConstructorArgs, error)
}

// StarknetNode is the read-only view of a Starknet JSON-RPC node
type StarknetNode interface {
	// ChainID returns the decoded short-string chain id (SN_SEPOLIA, SN_MAIN, ...)
	ChainID(ctx context.Context) (string, error)
	Call(ctx context.Context, contract domain.Felt, entryPoint string, calldata []domain.Felt) ([]domain.Felt, error)
	ClassHashAt(ctx context.Context, address domain.Felt) (domain.Felt, error)
	WaitForTransaction(ctx context.Context, txHash domain.Felt) (*models.Receipt, error)
}

// Deployer signs and submits declare and deploy transactions
type Deployer interface {
	// PrepareAccount makes the signing account usable, e.g. by fetching its
	// descriptor from the network
	PrepareAccount(ctx context.Context) error
	DeclareAndDeploy(ctx context.Context, req DeclareDeployRequest) (*models.DeployResult, error)
}

// DeclareDeployRequest is the input of a combined declare-and-deploy
type DeclareDeployRequest struct {
	Contract  string
	Artifacts *models.ArtifactPair
	Calldata  []domain.Felt
}

// SummaryStore persists deployment summaries keyed by output file name
type SummaryStore interface {
	Save(ctx context.Context, output string, summary *models.Summary) (string, error)
	// Load returns an error matching domain.ErrNotFound when the file is absent
	Load(ctx context.Context, output string) (*models.Summary, error)
	List(ctx context.Context) ([]models.StoredSummary, error)
	Path(output string) string
}

// Confirmer asks the operator to approve an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ContractSelector lets the operator pick a contract when none was named
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []models.ContractSpec, prompt string) (*models.ContractSpec, error)
}

// ComposeStateStore persists compose progress so an interrupted run can resume
type ComposeStateStore interface {
	// Load returns an error matching domain.ErrNotFound when no state exists
	Load(ctx context.Context, plan string) (*ComposeState, error)
	Save(ctx context.Context, state *ComposeState) error
}

// EnvLookup reads process environment variables
type EnvLookup func(key string) (string, bool)

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    DeployStage
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Success(message string)
	Warn(message string)
	Error(message string)
}

// ComposeSink receives plan-level events of a compose run
type ComposeSink interface {
	ProgressSink
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Success(string)                            {}
func (NopProgress) Warn(string)                               {}
func (NopProgress) Error(string)                              {}

// DeployStage represents a step of the deployment runner
type DeployStage string

const (
	StageConnecting   DeployStage = "Connecting"
	StageArtifacts    DeployStage = "Loading artifacts"
	StageCalldata     DeployStage = "Encoding calldata"
	StageSubmitting   DeployStage = "Declaring and deploying"
	StageConfirming   DeployStage = "Waiting for receipt"
	StageVerifying    DeployStage = "Verifying"
	StagePersisting   DeployStage = "Saving summary"
	StageCompleted    DeployStage = "Completed"
	StageStepStarting DeployStage = "step_starting"
	StagePlanCreated  DeployStage = "plan_created"
	StageStepDone     DeployStage = "step_completed"
	StageComposeDone  DeployStage = "compose_completed"
	StageResumed      DeployStage = "compose_resumed"
)
