package app

import (
	"log/slog"

	"github.com/inheritx/ixdeploy/internal/adapters/starknet"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.ContractSelector

	// Use cases
	DeployContract    *usecase.DeployContract
	ComposeDeployment *usecase.ComposeDeployment
	BuildCalldata     *usecase.BuildCalldata
	VerifyDeployment  *usecase.VerifyDeployment
	ListContracts     *usecase.ListContracts
	ShowSummary       *usecase.ShowSummary

	node *starknet.ClientAdapter
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.ContractSelector,
	deployContract *usecase.DeployContract,
	composeDeployment *usecase.ComposeDeployment,
	buildCalldata *usecase.BuildCalldata,
	verifyDeployment *usecase.VerifyDeployment,
	listContracts *usecase.ListContracts,
	showSummary *usecase.ShowSummary,
	node *starknet.ClientAdapter,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		Selector:          selector,
		DeployContract:    deployContract,
		ComposeDeployment: composeDeployment,
		BuildCalldata:     buildCalldata,
		VerifyDeployment:  verifyDeployment,
		ListContracts:     listContracts,
		ShowSummary:       showSummary,
		node:              node,
	}, nil
}

// Close releases the node connection, if one was dialed
func (a *App) Close() {
	if a.node != nil {
		a.node.Close()
	}
}
