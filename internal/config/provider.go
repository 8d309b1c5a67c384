package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inheritx/ixdeploy/internal/domain/config"
)

const (
	// ProjectMarker identifies the root of a Scarb project
	ProjectMarker = "Scarb.toml"

	// DataDirName holds tool state inside the project
	DataDirName = ".ixdeploy"

	DefaultArtifactsDir = "target/dev"
	DefaultStarkliPath  = "starkli"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	return Load(v, os.LookupEnv)
}

// Load resolves the runtime configuration from viper and the environment
func Load(v *viper.Viper, lookupEnv func(string) (string, bool)) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			// Not inside a Scarb project; artifacts paths are then relative to cwd
			projectRoot, err = os.Getwd()
			if err != nil {
				return nil, err
			}
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	env := func(key string) string {
		val, _ := lookupEnv(key)
		return strings.TrimSpace(val)
	}

	outDir, err := filepath.Abs(v.GetString("out_dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ArtifactsDir:   resolveIn(projectRoot, v.GetString("artifacts_dir")),
		OutDir:         outDir,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		JSON:           v.GetBool("json"),
		StrictDeps:     v.GetBool("strict_deps"),
		Timeout:        v.GetDuration("timeout"),
		ReceiptTimeout: v.GetDuration("receipt_timeout"),
		StarkliPath:    v.GetString("starkli_path"),
		AccountFile:    firstNonEmpty(v.GetString("account_file"), env(EnvAccountFile)),
		Account: config.Account{
			Address:    firstNonEmpty(env(EnvAccountAddress), v.GetString("account_address")),
			PrivateKey: firstNonEmpty(env(EnvPrivateKey), v.GetString("private_key")),
		},
	}
	if cfg.AccountFile != "" {
		cfg.AccountFile = resolveIn(projectRoot, cfg.AccountFile)
	}

	network, err := NewNetworkResolver(lookupEnv).Resolve(v.GetString("network"), v.GetString("rpc_url"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}
	cfg.Network = network

	contracts, err := LoadContractTable(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract table: %w", err)
	}
	cfg.Contracts = contracts

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find Scarb.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectMarker)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Scarb project (%s not found)", ProjectMarker)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	// .env must be in the process environment before viper and the
	// network resolver read it
	for _, err := range LoadEnvFiles(projectRoot) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("IXDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("artifacts_dir", DefaultArtifactsDir)
	v.SetDefault("out_dir", ".")
	v.SetDefault("starkli_path", DefaultStarkliPath)
	v.SetDefault("timeout", "0s")
	v.SetDefault("receipt_timeout", "3m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("json", false)
	v.SetDefault("strict_deps", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func resolveIn(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
