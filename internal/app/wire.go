//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/inheritx/ixdeploy/internal/adapters"
	"github.com/inheritx/ixdeploy/internal/config"
	"github.com/inheritx/ixdeploy/internal/logging"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewArgResolver,
		usecase.NewBuildCalldata,
		usecase.NewAdminVerifier,
		usecase.NewDeployContract,
		usecase.NewComposeDeployment,
		usecase.NewVerifyDeployment,
		usecase.NewListContracts,
		usecase.NewShowSummary,

		// App
		NewApp,
	)
	return nil, nil
}
