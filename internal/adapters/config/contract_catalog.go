package config

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

const maxSuggestions = 3

// ContractCatalogAdapter serves the contract table resolved into RuntimeConfig
type ContractCatalogAdapter struct {
	contracts []models.ContractSpec
}

// NewContractCatalogAdapter creates a catalog over the configured contract table
func NewContractCatalogAdapter(cfg *config.RuntimeConfig) *ContractCatalogAdapter {
	return &ContractCatalogAdapter{contracts: cfg.Contracts}
}

// Get looks a contract up by name, ignoring case. The artifact stem is
// accepted as well.
func (c *ContractCatalogAdapter) Get(name string) (*models.ContractSpec, error) {
	name = strings.TrimSpace(name)
	for i := range c.contracts {
		spec := &c.contracts[i]
		if strings.EqualFold(spec.Name, name) || strings.EqualFold(spec.Artifact, name) {
			return spec, nil
		}
	}
	return nil, domain.UnknownContractErr{Name: name, Suggestions: c.suggest(name)}
}

// All returns the table in declaration order
func (c *ContractCatalogAdapter) All() []models.ContractSpec {
	return c.contracts
}

// suggest ranks known names by fuzzy similarity, falling back to substring
// matches for inputs fuzzy matching cannot align (e.g. "ops")
func (c *ContractCatalogAdapter) suggest(name string) []string {
	if name == "" {
		return nil
	}
	names := lo.Map(c.contracts, func(s models.ContractSpec, _ int) string { return s.Name })
	lower := lo.Map(names, func(n string, _ int) string { return strings.ToLower(n) })

	matches := fuzzy.Find(strings.ToLower(name), lower)
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return names[m.Index] })

	if len(suggestions) == 0 {
		suggestions = lo.Filter(names, func(n string, _ int) bool {
			return strings.Contains(strings.ToLower(n), strings.ToLower(name))
		})
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.ContractCatalog = (*ContractCatalogAdapter)(nil)
