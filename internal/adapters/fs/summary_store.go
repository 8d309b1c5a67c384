package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// summaryPattern matches deployment.json and every <name>_deployment.json
const summaryPattern = "*deployment.json"

// SummaryStoreAdapter implements SummaryStore using one JSON file per contract
type SummaryStoreAdapter struct {
	outDir string
	log    *slog.Logger
}

// NewSummaryStoreAdapter creates a new SummaryStoreAdapter
func NewSummaryStoreAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SummaryStoreAdapter {
	return &SummaryStoreAdapter{
		outDir: cfg.OutDir,
		log:    log.With("component", "SummaryStore"),
	}
}

// Path returns where a summary with the given file name lives
func (s *SummaryStoreAdapter) Path(output string) string {
	return filepath.Join(s.outDir, output)
}

// Save writes the summary, replacing any previous file of the same name
func (s *SummaryStoreAdapter) Save(_ context.Context, output string, summary *models.Summary) (string, error) {
	if err := os.MkdirAll(s.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(output)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}

	s.log.Debug("saved summary", "path", path, "contract", summary.ContractName)
	return path, nil
}

// Load reads a summary. Returns domain.ErrNotFound if the file does not exist.
func (s *SummaryStoreAdapter) Load(_ context.Context, output string) (*models.Summary, error) {
	path := s.Path(output)
	data, err := os.ReadFile(path) //nolint:gosec // output names are validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", output, err)
	}

	var summary models.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", output, err)
	}

	return &summary, nil
}

// List returns every summary in the output directory that parses
func (s *SummaryStoreAdapter) List(ctx context.Context) ([]models.StoredSummary, error) {
	paths, err := filepath.Glob(filepath.Join(s.outDir, summaryPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	sort.Strings(paths)

	summaries := make([]models.StoredSummary, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if name != "deployment.json" && !strings.HasSuffix(name, "_deployment.json") {
			continue
		}

		summary, err := s.Load(ctx, name)
		if err != nil {
			s.log.Debug("skipping unreadable summary", "path", path, "error", err)
			continue
		}
		summaries = append(summaries, models.StoredSummary{Path: path, Summary: summary})
	}

	return summaries, nil
}

// Ensure SummaryStoreAdapter implements SummaryStore
var _ usecase.SummaryStore = (*SummaryStoreAdapter)(nil)
