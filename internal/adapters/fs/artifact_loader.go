package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inheritx/ixdeploy/internal/adapters/abi"
	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ArtifactLoaderAdapter reads Scarb build output from the artifacts directory
type ArtifactLoaderAdapter struct {
	dir string
	log *slog.Logger
}

// NewArtifactLoaderAdapter creates a new ArtifactLoaderAdapter
func NewArtifactLoaderAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ArtifactLoaderAdapter {
	return &ArtifactLoaderAdapter{
		dir: cfg.ArtifactsDir,
		log: log.With("component", "ArtifactLoader"),
	}
}

// Exists reports whether both compiled forms of the contract are present
func (a *ArtifactLoaderAdapter) Exists(spec *models.ContractSpec) bool {
	for _, name := range []string{spec.SierraFile(), spec.CasmFile()} {
		if _, err := os.Stat(filepath.Join(a.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Load reads and sanity-checks the Sierra and CASM classes. The raw bytes
// are kept unmodified for submission.
func (a *ArtifactLoaderAdapter) Load(_ context.Context, spec *models.ContractSpec) (*models.ArtifactPair, error) {
	pair := &models.ArtifactPair{
		Contract:   spec.Name,
		SierraPath: filepath.Join(a.dir, spec.SierraFile()),
		CasmPath:   filepath.Join(a.dir, spec.CasmFile()),
	}

	sierra, err := readClass(pair.SierraPath, "sierra_program", "abi")
	if err != nil {
		return nil, err
	}
	casm, err := readClass(pair.CasmPath, "bytecode")
	if err != nil {
		return nil, err
	}

	contractABI, err := abi.ParseABI(sierra.fields["abi"])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, pair.SierraPath, err)
	}

	pair.Sierra = sierra.raw
	pair.Casm = casm.raw
	pair.ABI = contractABI

	a.log.Debug("loaded artifacts", "contract", spec.Name,
		"sierra", pair.SierraPath, "casm", pair.CasmPath, "abi_entries", len(contractABI))
	return pair, nil
}

type contractClass struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

func readClass(path string, required ...string) (*contractClass, error) {
	data, err := os.ReadFile(path) //nolint:gosec // build output
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found (run `scarb build`)", domain.ErrInvalidArtifact, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrInvalidArtifact, path, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object: %v", domain.ErrInvalidArtifact, path, err)
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: %s has no %q field", domain.ErrInvalidArtifact, path, key)
		}
	}

	return &contractClass{raw: json.RawMessage(data), fields: fields}, nil
}

// Ensure ArtifactLoaderAdapter implements ArtifactLoader
var _ usecase.ArtifactLoader = (*ArtifactLoaderAdapter)(nil)
