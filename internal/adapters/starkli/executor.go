package starkli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/creack/pty"

	"github.com/inheritx/ixdeploy/internal/config"
	"github.com/inheritx/ixdeploy/internal/domain"
	domainconfig "github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

var (
	declareTxPattern  = regexp.MustCompile(`(?i)declaration transaction:\s*(0x[0-9a-f]+)`)
	deployTxPattern   = regexp.MustCompile(`(?i)deployment transaction:\s*(0x[0-9a-f]+)`)
	alreadyDeclared   = regexp.MustCompile(`(?i)already declared`)
	ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// ExecutorAdapter declares and deploys contracts by driving the starkli CLI.
// Signing happens inside starkli; the private key reaches it through the
// environment only.
type ExecutorAdapter struct {
	log         *slog.Logger
	binary      string
	projectRoot string
	dataDir     string
	rpcURL      string
	account     domainconfig.Account
	accountFile string
	debug       bool

	// stream receives starkli's progress output in debug mode
	stream io.Writer

	// preparedFile is the descriptor in use once PrepareAccount succeeded
	preparedFile string
}

// NewExecutorAdapter creates a new starkli executor
func NewExecutorAdapter(cfg *domainconfig.RuntimeConfig, log *slog.Logger) *ExecutorAdapter {
	binary := cfg.StarkliPath
	if binary == "" {
		binary = config.DefaultStarkliPath
	}
	return &ExecutorAdapter{
		log:         log.With("component", "StarkliExecutor"),
		binary:      binary,
		projectRoot: cfg.ProjectRoot,
		dataDir:     cfg.DataDir,
		rpcURL:      cfg.Network.RPCURL,
		account:     cfg.Account,
		accountFile: cfg.AccountFile,
		debug:       cfg.Debug,
		stream:      os.Stderr,
	}
}

// PrepareAccount makes a starkli account descriptor available, fetching it
// from the network unless STARKNET_ACCOUNT_FILE points at an existing one
func (e *ExecutorAdapter) PrepareAccount(ctx context.Context) error {
	if !e.account.Configured() {
		return fmt.Errorf("%w: set %s and %s", domain.ErrMissingCredentials,
			config.EnvAccountAddress, config.EnvPrivateKey)
	}

	if e.accountFile != "" {
		if _, err := os.Stat(e.accountFile); err != nil {
			return fmt.Errorf("account file %s: %w", e.accountFile, err)
		}
		e.preparedFile = e.accountFile
		return nil
	}

	address, err := domain.ParseFelt(e.account.Address)
	if err != nil {
		return fmt.Errorf("invalid account address: %w", err)
	}

	path := filepath.Join(e.dataDir, "accounts", address.PaddedHex()+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create account directory: %w", err)
	}
	// starkli refuses to overwrite an existing descriptor
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale account file: %w", err)
	}

	if _, _, err := e.run(ctx, "account", "fetch", address.Hex(), "--rpc", e.rpcURL, "--output", path); err != nil {
		return fmt.Errorf("failed to fetch account %s: %w", address.Hex(), err)
	}

	e.preparedFile = path
	e.log.Debug("account descriptor ready", "path", path)
	return nil
}

// DeclareAndDeploy declares the class (unless already declared) and deploys
// one instance with the given constructor calldata
func (e *ExecutorAdapter) DeclareAndDeploy(ctx context.Context, req usecase.DeclareDeployRequest) (*models.DeployResult, error) {
	if e.preparedFile == "" {
		if err := e.PrepareAccount(ctx); err != nil {
			return nil, err
		}
	}

	result := &models.DeployResult{}

	stdout, stderr, err := e.run(ctx, "declare", req.Artifacts.SierraPath,
		"--casm-file", req.Artifacts.CasmPath,
		"--rpc", e.rpcURL,
		"--account", e.preparedFile,
		"--watch")
	if err != nil {
		return nil, fmt.Errorf("declare failed: %w", err)
	}

	result.ClassHash, err = lastFelt(stdout)
	if err != nil {
		return nil, fmt.Errorf("could not read class hash from starkli output: %w", err)
	}
	if hash, ok := matchFelt(declareTxPattern, stderr); ok {
		result.DeclareTxHash = &hash
	} else if alreadyDeclared.MatchString(stderr) {
		result.AlreadyDeclared = true
	}
	e.log.Debug("class declared", "contract", req.Contract, "class_hash", result.ClassHash.Hex(),
		"already_declared", result.AlreadyDeclared)

	args := []string{"deploy", result.ClassHash.Hex()}
	args = append(args, domain.FeltsToHex(req.Calldata)...)
	args = append(args, "--rpc", e.rpcURL, "--account", e.preparedFile, "--watch")

	stdout, stderr, err = e.run(ctx, args...)
	if err != nil {
		return result, fmt.Errorf("deploy failed: %w", err)
	}

	result.Address, err = lastFelt(stdout)
	if err != nil {
		return result, fmt.Errorf("could not read contract address from starkli output: %w", err)
	}
	hash, ok := matchFelt(deployTxPattern, stderr)
	if !ok {
		return result, fmt.Errorf("could not read deploy transaction hash from starkli output")
	}
	result.DeployTxHash = hash

	return result, nil
}

// run executes starkli and returns its stdout and stderr
func (e *ExecutorAdapter) run(ctx context.Context, args ...string) (string, string, error) {
	start := time.Now()
	e.log.Debug("running starkli", "args", args)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = e.projectRoot
	cmd.Env = e.buildEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout

	var err error
	if e.debug {
		err = e.runStreaming(cmd, &stderr)
	} else {
		cmd.Stderr = &stderr
		err = cmd.Run()
	}

	errOut := ansiEscapePattern.ReplaceAllString(stderr.String(), "")
	e.log.Debug("starkli finished", "command", args[0], "duration", time.Since(start), "error", err)

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errOut, fmt.Errorf("%s not found; install starkli or set starkli_path", e.binary)
		}
		return stdout.String(), errOut, fmt.Errorf("starkli %s: %w\n%s", args[0], err, tail(errOut, 20))
	}
	return stdout.String(), errOut, nil
}

// runStreaming attaches stderr to a pseudo-terminal so starkli keeps its
// colours, echoing it live while capturing it for parsing. Stdout stays a
// plain pipe.
func (e *ExecutorAdapter) runStreaming(cmd *exec.Cmd, capture *bytes.Buffer) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// Reading a pty whose child has exited ends with EIO on Linux
	_, _ = io.Copy(io.MultiWriter(e.stream, capture), ptyFile)

	return cmd.Wait()
}

// buildEnv passes the private key to starkli and drops signer settings that
// would conflict with it
func (e *ExecutorAdapter) buildEnv() []string {
	env := make([]string, 0, len(os.Environ())+1)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case config.EnvPrivateKey, "STARKNET_KEYSTORE", "STARKNET_ACCOUNT", "STARKNET_RPC":
			continue
		}
		env = append(env, kv)
	}
	return append(env, config.EnvPrivateKey+"="+e.account.PrivateKey)
}

func lastFelt(out string) (domain.Felt, error) {
	lines := strings.Split(strings.TrimSpace(ansiEscapePattern.ReplaceAllString(out, "")), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return domain.Felt{}, fmt.Errorf("no output")
	}
	return domain.ParseFelt(last)
}

func matchFelt(pattern *regexp.Regexp, out string) (domain.Felt, bool) {
	m := pattern.FindStringSubmatch(out)
	if m == nil {
		return domain.Felt{}, false
	}
	f, err := domain.ParseFelt(m[1])
	if err != nil {
		return domain.Felt{}, false
	}
	return f, true
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// Ensure the adapter implements the interface
var _ usecase.Deployer = (*ExecutorAdapter)(nil)
