package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ShowSummary reads the stored summary of one contract
type ShowSummary struct {
	catalog ContractCatalog
	store   SummaryStore
}

// NewShowSummary creates a new ShowSummary use case
func NewShowSummary(catalog ContractCatalog, store SummaryStore) *ShowSummary {
	return &ShowSummary{catalog: catalog, store: store}
}

// ShowSummaryResult contains a summary and where it was read from
type ShowSummaryResult struct {
	Contract *models.ContractSpec
	Summary  *models.Summary
	Path     string
}

// Run loads the summary of the named contract
func (uc *ShowSummary) Run(ctx context.Context, contract string) (*ShowSummaryResult, error) {
	spec, err := uc.catalog.Get(contract)
	if err != nil {
		return nil, err
	}

	summary, err := uc.store.Load(ctx, spec.Output)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no summary for %s (looked for %s): %w", spec.Name, uc.store.Path(spec.Output), domain.ErrNotFound)
		}
		return nil, err
	}

	return &ShowSummaryResult{
		Contract: spec,
		Summary:  summary,
		Path:     uc.store.Path(spec.Output),
	}, nil
}
