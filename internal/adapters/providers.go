package adapters

import (
	"os"

	"github.com/google/wire"

	"github.com/inheritx/ixdeploy/internal/adapters/abi"
	internalconfig "github.com/inheritx/ixdeploy/internal/adapters/config"
	"github.com/inheritx/ixdeploy/internal/adapters/fs"
	"github.com/inheritx/ixdeploy/internal/adapters/interactive"
	"github.com/inheritx/ixdeploy/internal/adapters/progress"
	"github.com/inheritx/ixdeploy/internal/adapters/starkli"
	"github.com/inheritx/ixdeploy/internal/adapters/starknet"
	"github.com/inheritx/ixdeploy/internal/cli/render"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ProvideEnvLookup provides the process environment
func ProvideEnvLookup() usecase.EnvLookup {
	return os.LookupEnv
}

// ProvideProgressSink picks the spinner, or nothing when stdout carries JSON
func ProvideProgressSink(cfg *config.RuntimeConfig, spinner *progress.SpinnerProgressReporter) usecase.ProgressSink {
	if cfg.JSON {
		return progress.NewNopSink()
	}
	return spinner
}

// ProvideComposeSink renders compose plans and step results around the spinner
func ProvideComposeSink(cfg *config.RuntimeConfig, spinner *progress.SpinnerProgressReporter) usecase.ComposeSink {
	if cfg.JSON {
		return progress.NewNopSink()
	}
	return progress.NewComposeProgress(render.NewComposeRenderer(os.Stdout), spinner)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSummaryStoreAdapter,
	wire.Bind(new(usecase.SummaryStore), new(*fs.SummaryStoreAdapter)),

	fs.NewArtifactLoaderAdapter,
	wire.Bind(new(usecase.ArtifactLoader), new(*fs.ArtifactLoaderAdapter)),

	fs.NewComposeStateStoreAdapter,
	wire.Bind(new(usecase.ComposeStateStore), new(*fs.ComposeStateStoreAdapter)),
)

// StarknetSet provides the node client and the transaction backend
var StarknetSet = wire.NewSet(
	starknet.NewClientAdapter,
	wire.Bind(new(usecase.StarknetNode), new(*starknet.ClientAdapter)),

	starkli.NewExecutorAdapter,
	wire.Bind(new(usecase.Deployer), new(*starkli.ExecutorAdapter)),
)

// ABISet provides calldata encoding
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.CalldataEncoder), new(*abi.Encoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewContractCatalogAdapter,
	wire.Bind(new(usecase.ContractCatalog), new(*internalconfig.ContractCatalogAdapter)),
)

// ProgressSet provides console progress reporting
var ProgressSet = wire.NewSet(
	progress.NewSpinnerProgressReporter,
	ProvideProgressSink,
	ProvideComposeSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	// Provider functions
	ProvideEnvLookup,

	// Adapter sets
	FSSet,
	StarknetSet,
	ABISet,
	InteractiveSet,
	ConfigSet,
	ProgressSet,
)
