package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Confirm asks a yes/no question. --yes approves without asking and
// non-interactive mode refuses to prompt.
func (s *SelectorAdapter) Confirm(_ context.Context, prompt string) (bool, error) {
	if s.config.AssumeYes {
		return true, nil
	}
	if s.config.NonInteractive {
		return false, fmt.Errorf("confirmation required; pass --yes to approve in non-interactive mode")
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, fmt.Errorf("interrupted")
		}
		// promptui reports "n" as ErrAbort
		return false, nil
	}
	return true, nil
}

// SelectContract lets the operator pick an entry of the contract table
func (s *SelectorAdapter) SelectContract(_ context.Context, contracts []models.ContractSpec, prompt string) (*models.ContractSpec, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(contracts) == 0 {
		return nil, fmt.Errorf("no contracts provided for selection")
	}

	if len(contracts) == 1 {
		return &contracts[0], nil
	}

	options := formatContractOptions(contracts)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, type to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher:  createFuzzySearchFunc(contracts),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return &contracts[index], nil
}

// formatContractOptions renders "Name (output file)" with dependency hints
func formatContractOptions(contracts []models.ContractSpec) []string {
	options := make([]string, len(contracts))
	for i, contract := range contracts {
		name := color.New(color.FgWhite, color.Bold).Sprint(contract.Name)
		output := color.New(color.FgBlue).Sprint(contract.Output)

		if len(contract.DependsOn) > 0 {
			deps := color.New(color.FgYellow).Sprintf("[needs %s]", strings.Join(contract.DependsOn, ", "))
			options[i] = fmt.Sprintf("%s %s (%s)", name, deps, output)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, output)
		}
	}
	return options
}

// createFuzzySearchFunc matches on the plain contract name so colour codes
// in the option labels do not interfere
func createFuzzySearchFunc(contracts []models.ContractSpec) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(contracts[index].Name)

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
	_ usecase.ContractSelector = (*SelectorAdapter)(nil)
)
