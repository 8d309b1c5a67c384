package config

import (
	"time"

	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ArtifactsDir string // Absolute directory holding *.contract_class.json
	OutDir       string // Absolute directory summaries are written to
	DataDir      string // Project-local tool state (.ixdeploy)

	// Target
	Network *Network
	Account Account

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	JSON           bool
	StrictDeps     bool
	Timeout        time.Duration
	ReceiptTimeout time.Duration

	// External tooling
	StarkliPath string
	AccountFile string // Pre-existing starkli account descriptor, optional

	// Resolved contract table
	Contracts []models.ContractSpec
}

// Network represents network configuration
type Network struct {
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ChainID     string `json:"chainId,omitempty"` // Expected short-string chain id, empty to skip the check
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// Account is the submitting account
type Account struct {
	Address    string
	PrivateKey string //nolint:gosec // loaded from env, never persisted
}

// Configured reports whether both halves of the credentials are present
func (a Account) Configured() bool {
	return a.Address != "" && a.PrivateKey != ""
}
