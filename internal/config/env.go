package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names shared with the original deployment scripts
const (
	EnvAccountAddress = "STARKNET_ACCOUNT_ADDRESS"
	EnvPrivateKey     = "STARKNET_PRIVATE_KEY" //nolint:gosec // variable name
	EnvNetwork        = "STARKNET_NETWORK"
	EnvRPCURL         = "STARKNET_RPC_URL"
	EnvSepoliaNodeURL = "SEPOLIA_NODE_URL"
	EnvAccountFile    = "STARKNET_ACCOUNT_FILE"
)

// LoadEnvFiles loads .env and .env.local from the project root. Variables
// already present in the process environment win.
func LoadEnvFiles(projectRoot string) []error {
	var errs []error
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to load %s: %w", envFile, err))
		}
	}
	return errs
}
