package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ListContracts reports every contract of the table together with what is
// known about it locally
type ListContracts struct {
	catalog ContractCatalog
	loader  ArtifactLoader
	store   SummaryStore
	log     *slog.Logger
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(catalog ContractCatalog, loader ArtifactLoader, store SummaryStore, log *slog.Logger) *ListContracts {
	return &ListContracts{
		catalog: catalog,
		loader:  loader,
		store:   store,
		log:     log.With("component", "ListContracts"),
	}
}

// ContractStatus is one row of the listing
type ContractStatus struct {
	Spec             models.ContractSpec
	ArtifactsPresent bool
	SummaryPath      string
	Summary          *models.Summary // nil when never deployed from here
	SummaryError     string
}

// ListContractsResult contains the listing and a few totals
type ListContractsResult struct {
	Contracts []ContractStatus
	Deployed  int
	Buildable int
}

// Run lists the contract table in declaration order
func (uc *ListContracts) Run(ctx context.Context) (*ListContractsResult, error) {
	specs := uc.catalog.All()
	result := &ListContractsResult{Contracts: make([]ContractStatus, 0, len(specs))}

	for i := range specs {
		spec := specs[i]
		status := ContractStatus{
			Spec:             spec,
			ArtifactsPresent: uc.loader.Exists(&spec),
			SummaryPath:      uc.store.Path(spec.Output),
		}

		summary, err := uc.store.Load(ctx, spec.Output)
		switch {
		case err == nil:
			status.Summary = summary
			result.Deployed++
		case errors.Is(err, domain.ErrNotFound):
		default:
			uc.log.Debug("unreadable summary", "contract", spec.Name, "error", err)
			status.SummaryError = err.Error()
		}

		if status.ArtifactsPresent {
			result.Buildable++
		}
		result.Contracts = append(result.Contracts, status)
	}

	return result, nil
}
