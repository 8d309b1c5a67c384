package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/mock"

	"github.com/inheritx/ixdeploy/internal/adapters/abi"
	adapterconfig "github.com/inheritx/ixdeploy/internal/adapters/config"
	"github.com/inheritx/ixdeploy/internal/adapters/fs"
	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

const (
	adminAddr  = "0x0123"
	strkToken  = "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"
	addressTyp = "core::starknet::contract_address::ContractAddress"
)

// MockStarknetNode is a mock implementation of StarknetNode
type MockStarknetNode struct {
	mock.Mock
}

func (m *MockStarknetNode) ChainID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStarknetNode) Call(ctx context.Context, contract domain.Felt, entryPoint string, calldata []domain.Felt) ([]domain.Felt, error) {
	args := m.Called(ctx, contract, entryPoint, calldata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Felt), args.Error(1)
}

func (m *MockStarknetNode) ClassHashAt(ctx context.Context, address domain.Felt) (domain.Felt, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Felt), args.Error(1)
}

func (m *MockStarknetNode) WaitForTransaction(ctx context.Context, txHash domain.Felt) (*models.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

// MockDeployer is a mock implementation of Deployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) PrepareAccount(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDeployer) DeclareAndDeploy(ctx context.Context, req usecase.DeclareDeployRequest) (*models.DeployResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeployResult), args.Error(1)
}

// MockArtifactLoader is a mock implementation of ArtifactLoader
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(ctx context.Context, spec *models.ContractSpec) (*models.ArtifactPair, error) {
	args := m.Called(ctx, spec.Name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArtifactPair), args.Error(1)
}

func (m *MockArtifactLoader) Exists(spec *models.ContractSpec) bool {
	return m.Called(spec.Name).Bool(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// recordingSink is a ProgressSink that keeps everything it is told
type recordingSink struct {
	mu       sync.Mutex
	events   []usecase.ProgressEvent
	infos    []string
	warnings []string
	errors   []string
}

func (r *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) Info(message string)    { r.mu.Lock(); r.infos = append(r.infos, message); r.mu.Unlock() }
func (r *recordingSink) Success(message string) { r.Info(message) }
func (r *recordingSink) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, message)
}
func (r *recordingSink) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingSink) stages() []usecase.DeployStage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.events, func(e usecase.ProgressEvent, _ int) usecase.DeployStage { return e.Stage })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mapEnv(values map[string]string) usecase.EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// testContracts mirrors the shape of the built-in table
func testContracts() []models.ContractSpec {
	return []models.ContractSpec{
		{
			Name: "InheritXKYC", Artifact: "inheritx_contracts_InheritXKYC", Output: "kyc_deployment.json",
			VerifyAdmin: true,
			Args:        []models.ArgSpec{{Name: "admin", Env: "ADMIN_ADDRESS"}},
		},
		{
			Name: "InheritXPlans", Artifact: "inheritx_contracts_InheritXPlans", Output: "core_plans_deployment.json",
			VerifyAdmin: true,
			Args: []models.ArgSpec{
				{Name: "admin", Env: "ADMIN_ADDRESS"},
				{Name: "strk_token", Value: strkToken},
			},
		},
		{
			Name: "InheritXOperations", Artifact: "inheritx_contracts_InheritXOperations", Output: "core_operations_deployment.json",
			VerifyAdmin: true,
			DependsOn:   []string{"InheritXPlans"},
			Args: []models.ArgSpec{
				{Name: "admin", Env: "ADMIN_ADDRESS"},
				{Name: "dex_router", Env: "DEX_ROUTER_ADDRESS", Default: "0x0123456789abcdef"},
				{Name: "emergency_withdraw_address", Env: "EMERGENCY_WITHDRAW_ADDRESS", DefaultFrom: "admin"},
				{Name: "core_contract", Deployment: "InheritXPlans", Fallback: "0x0"},
				{Name: "strk_token", Value: strkToken},
			},
		},
	}
}

// adminABI declares a constructor taking the given address inputs and a
// get_admin view inside an interface
func adminABI(inputs ...string) models.ABI {
	return models.ABI{
		{
			Type: models.ABIConstructor,
			Name: "constructor",
			Inputs: lo.Map(inputs, func(name string, _ int) models.ABIParam {
				return models.ABIParam{Name: name, Type: addressTyp}
			}),
		},
		{
			Type: models.ABIInterface,
			Name: "inheritx::IAdmin",
			Items: []models.ABIEntry{{
				Type:            models.ABIFunction,
				Name:            "get_admin",
				Outputs:         []models.ABIParam{{Type: addressTyp}},
				StateMutability: "view",
			}},
		},
	}
}

var contractABIs = map[string]models.ABI{
	"InheritXKYC":        adminABI("admin"),
	"InheritXPlans":      adminABI("admin", "strk_token"),
	"InheritXOperations": adminABI("admin", "dex_router", "emergency_withdraw_address",
		"core_contract", "strk_token"),
}

// harness wires the use cases with mocks for the network side and the real
// file-system summary store
type harness struct {
	cfg      *config.RuntimeConfig
	node     *MockStarknetNode
	deployer *MockDeployer
	loader   *MockArtifactLoader
	confirm  *MockConfirmer
	sink     *recordingSink
	store    *fs.SummaryStoreAdapter
	catalog  *adapterconfig.ContractCatalogAdapter
	env      map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.RuntimeConfig{
		OutDir:    t.TempDir(),
		Network:   &config.Network{Name: "sepolia", RPCURL: "http://node.invalid", ChainID: "SN_SEPOLIA"},
		Account:   config.Account{Address: "0xacc", PrivateKey: "0xkey"},
		AssumeYes: true,
		Contracts: testContracts(),
	}

	h := &harness{
		cfg:      cfg,
		node:     new(MockStarknetNode),
		deployer: new(MockDeployer),
		loader:   new(MockArtifactLoader),
		confirm:  new(MockConfirmer),
		sink:     &recordingSink{},
		store:    fs.NewSummaryStoreAdapter(cfg, discardLogger()),
		catalog:  adapterconfig.NewContractCatalogAdapter(cfg),
		env:      map[string]string{"ADMIN_ADDRESS": adminAddr},
	}

	for name, contractABI := range contractABIs {
		h.loader.On("Load", mock.Anything, name).Return(&models.ArtifactPair{
			Contract:   name,
			SierraPath: "/build/" + name + ".contract_class.json",
			CasmPath:   "/build/" + name + ".compiled_contract_class.json",
			ABI:        contractABI,
		}, nil).Maybe()
	}
	return h
}

func (h *harness) buildCalldata() *usecase.BuildCalldata {
	resolver := usecase.NewArgResolver(h.catalog, h.store, mapEnv(h.env), discardLogger())
	return usecase.NewBuildCalldata(h.catalog, h.loader, resolver, abi.NewEncoder(discardLogger()), h.sink, discardLogger())
}

func (h *harness) deployContract() *usecase.DeployContract {
	return usecase.NewDeployContract(
		h.cfg,
		h.node,
		h.deployer,
		h.buildCalldata(),
		usecase.NewAdminVerifier(h.node, discardLogger()),
		h.store,
		h.confirm,
		h.sink,
		discardLogger(),
	)
}

// expectHealthyNode sets up a reachable node whose getter returns admin
func (h *harness) expectHealthyNode(admin string) {
	h.node.On("ChainID", mock.Anything).Return("SN_SEPOLIA", nil).Maybe()
	h.deployer.On("PrepareAccount", mock.Anything).Return(nil).Maybe()
	h.node.On("WaitForTransaction", mock.Anything, mock.Anything).
		Return(&models.Receipt{FinalityStatus: models.FinalityAcceptedOnL2, ExecutionStatus: models.ExecutionSucceeded}, nil).Maybe()
	h.node.On("Call", mock.Anything, mock.Anything, "get_admin", mock.Anything).
		Return([]domain.Felt{domain.MustParseFelt(admin)}, nil).Maybe()
}

// expectDeploy makes DeclareAndDeploy for contract return the given values
func (h *harness) expectDeploy(contract, classHash, address string) *mock.Call {
	result := &models.DeployResult{
		ClassHash:    domain.MustParseFelt(classHash),
		Address:      domain.MustParseFelt(address),
		DeployTxHash: domain.MustParseFelt("0xd2"),
	}
	declare := domain.MustParseFelt("0xd1")
	result.DeclareTxHash = &declare

	h.node.On("ClassHashAt", mock.Anything, result.Address).Return(result.ClassHash, nil).Maybe()
	return h.deployer.On("DeclareAndDeploy", mock.Anything, mock.MatchedBy(func(req usecase.DeclareDeployRequest) bool {
		return req.Contract == contract
	})).Return(result, nil)
}
