package starkli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// fakeStarkli mimics the output layout of starkli: results on stdout,
// progress and transaction hashes on stderr
const fakeStarkli = `#!/bin/sh
echo "$*" >> "$FAKE_STARKLI_LOG"
echo "key=$STARKNET_PRIVATE_KEY" >> "$FAKE_STARKLI_LOG"
case "$1" in
  account)
    while [ $# -gt 0 ]; do
      if [ "$1" = "--output" ]; then shift; echo '{"version":1}' > "$1"; fi
      shift
    done
    ;;
  declare)
    if [ -n "$FAKE_ALREADY_DECLARED" ]; then
      echo "Not declaring class as it's already declared. Class hash:" >&2
    else
      echo "Declaring Cairo 1 class: 0x0c1a55" >&2
      echo "Contract declaration transaction: 0x0d1" >&2
      echo "Class hash declared:" >&2
    fi
    echo "0x0c1a55"
    ;;
  deploy)
    if [ -n "$FAKE_DEPLOY_FAIL" ]; then
      echo "Error: TransactionExecutionError: insufficient balance" >&2
      exit 1
    fi
    echo "Deploying class 0x0c1a55 with salt 0x99..." >&2
    echo "Contract deployment transaction: 0x0d2" >&2
    echo "Contract deployed:" >&2
    echo "0x0a11ce"
    ;;
esac
`

type fixture struct {
	executor *ExecutorAdapter
	logPath  string
	dataDir  string
}

func newFixture(t *testing.T, accountFile string) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "starkli")
	require.NoError(t, os.WriteFile(binary, []byte(fakeStarkli), 0755))

	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("FAKE_STARKLI_LOG", logPath)

	cfg := &config.RuntimeConfig{
		ProjectRoot: dir,
		DataDir:     filepath.Join(dir, ".ixdeploy"),
		Network:     &config.Network{Name: "sepolia", RPCURL: "http://node.invalid/rpc"},
		Account:     config.Account{Address: "0x123", PrivateKey: "0xsecret"},
		AccountFile: accountFile,
		StarkliPath: binary,
	}
	return &fixture{
		executor: NewExecutorAdapter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))),
		logPath:  logPath,
		dataDir:  cfg.DataDir,
	}
}

func (f *fixture) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.logPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func testRequest() usecase.DeclareDeployRequest {
	return usecase.DeclareDeployRequest{
		Contract: "InheritXKYC",
		Artifacts: &models.ArtifactPair{
			SierraPath: "/build/kyc.contract_class.json",
			CasmPath:   "/build/kyc.compiled_contract_class.json",
		},
		Calldata: []domain.Felt{domain.MustParseFelt("0x123"), domain.FeltFromUint64(0)},
	}
}

func TestPrepareAccount_FetchesDescriptor(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.executor.PrepareAccount(context.Background()))

	want := filepath.Join(f.dataDir, "accounts",
		"0x0000000000000000000000000000000000000000000000000000000000000123.json")
	assert.Equal(t, want, f.executor.preparedFile)
	assert.FileExists(t, want)

	calls := f.calls(t)
	assert.Equal(t, "account fetch 0x123 --rpc http://node.invalid/rpc --output "+want, calls[0])
}

func TestPrepareAccount_UsesExistingFile(t *testing.T) {
	accountFile := filepath.Join(t.TempDir(), "account.json")
	require.NoError(t, os.WriteFile(accountFile, []byte("{}"), 0600))
	f := newFixture(t, accountFile)

	require.NoError(t, f.executor.PrepareAccount(context.Background()))
	assert.Equal(t, accountFile, f.executor.preparedFile)
	assert.NoFileExists(t, f.logPath)
}

func TestPrepareAccount_MissingCredentials(t *testing.T) {
	f := newFixture(t, "")
	f.executor.account = config.Account{Address: "0x123"}

	err := f.executor.PrepareAccount(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestDeclareAndDeploy(t *testing.T) {
	f := newFixture(t, "")

	result, err := f.executor.DeclareAndDeploy(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "0xc1a55", result.ClassHash.Hex())
	assert.Equal(t, "0xa11ce", result.Address.Hex())
	require.NotNil(t, result.DeclareTxHash)
	assert.Equal(t, "0xd1", result.DeclareTxHash.Hex())
	assert.Equal(t, "0xd2", result.DeployTxHash.Hex())
	assert.False(t, result.AlreadyDeclared)

	calls := f.calls(t)
	require.Len(t, calls, 6)
	assert.True(t, strings.HasPrefix(calls[2],
		"declare /build/kyc.contract_class.json --casm-file /build/kyc.compiled_contract_class.json --rpc http://node.invalid/rpc --account "))
	assert.True(t, strings.HasPrefix(calls[4], "deploy 0xc1a55 0x123 0x0 --rpc http://node.invalid/rpc --account "))

	// The key only ever travels through the environment
	for i, line := range calls {
		if i%2 == 0 {
			assert.NotContains(t, line, "0xsecret")
		} else {
			assert.Equal(t, "key=0xsecret", line)
		}
	}
}

func TestDeclareAndDeploy_AlreadyDeclared(t *testing.T) {
	f := newFixture(t, "")
	t.Setenv("FAKE_ALREADY_DECLARED", "1")

	result, err := f.executor.DeclareAndDeploy(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, result.AlreadyDeclared)
	assert.Nil(t, result.DeclareTxHash)
	assert.Empty(t, result.DeclareTx())
	assert.Equal(t, "0xa11ce", result.Address.Hex())
}

func TestDeclareAndDeploy_DeployFails(t *testing.T) {
	f := newFixture(t, "")
	t.Setenv("FAKE_DEPLOY_FAIL", "1")

	_, err := f.executor.DeclareAndDeploy(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy failed")
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestDeclareAndDeploy_MissingBinary(t *testing.T) {
	f := newFixture(t, "")
	f.executor.binary = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := f.executor.DeclareAndDeploy(context.Background(), testRequest())
	require.Error(t, err)
}

func TestBuildEnv(t *testing.T) {
	f := newFixture(t, "")
	t.Setenv("STARKNET_KEYSTORE", "/home/me/keystore.json")
	t.Setenv("STARKNET_PRIVATE_KEY", "0xother")

	env := f.executor.buildEnv()
	assert.Contains(t, env, "STARKNET_PRIVATE_KEY=0xsecret")
	assert.NotContains(t, env, "STARKNET_PRIVATE_KEY=0xother")
	for _, kv := range env {
		assert.False(t, strings.HasPrefix(kv, "STARKNET_KEYSTORE="))
	}
}

func TestLastFelt(t *testing.T) {
	f, err := lastFelt("\x1b[32m0x0abc\x1b[0m\n")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", f.Hex())

	_, err = lastFelt("   \n")
	assert.Error(t, err)
}
