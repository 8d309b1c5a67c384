package render

import (
	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

// ArgJSON is the machine-readable form of a resolved argument
type ArgJSON struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Value  string        `json:"value"`
	Source string        `json:"source"`
	Detail string        `json:"detail,omitempty"`
	Felts  []domain.Felt `json:"felts"`
}

// CalldataJSON is printed by `calldata --json` and `deploy --dry-run --json`
type CalldataJSON struct {
	Contract string    `json:"contract"`
	Artifact string    `json:"artifact"`
	Args     []ArgJSON `json:"args"`
	Calldata []string  `json:"calldata"`
	Warnings []string  `json:"warnings,omitempty"`
}

// DeployJSON is printed by `deploy --json`
type DeployJSON struct {
	Contract    string          `json:"contract"`
	Network     string          `json:"network"`
	DryRun      bool            `json:"dryRun,omitempty"`
	Aborted     bool            `json:"aborted,omitempty"`
	Calldata    *CalldataJSON   `json:"calldata,omitempty"`
	Summary     *models.Summary `json:"summary,omitempty"`
	SummaryPath string          `json:"summaryPath,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// NewCalldataJSON converts resolved constructor args
func NewCalldataJSON(spec *models.ContractSpec, args *models.ConstructorArgs, warnings []string) *CalldataJSON {
	out := &CalldataJSON{Warnings: warnings, Args: []ArgJSON{}, Calldata: []string{}}
	if spec != nil {
		out.Contract = spec.Name
		out.Artifact = spec.Artifact
	}
	if args == nil {
		return out
	}
	for _, arg := range args.Args {
		out.Args = append(out.Args, ArgJSON{
			Name:   arg.Name,
			Type:   arg.Type,
			Value:  models.FormatValue(arg.Value),
			Source: string(arg.Source),
			Detail: arg.Detail,
			Felts:  arg.Felts,
		})
	}
	out.Calldata = domain.FeltsToDec(args.Calldata)
	return out
}

// NewDeployJSON converts a deployment run result
func NewDeployJSON(result *usecase.DeployContractResult) *DeployJSON {
	out := &DeployJSON{
		DryRun:      result.DryRun,
		Aborted:     result.Aborted,
		Summary:     result.Summary,
		SummaryPath: result.SummaryPath,
		Warnings:    result.Warnings,
	}
	if result.Contract != nil {
		out.Contract = result.Contract.Name
	}
	if result.Network != nil {
		out.Network = result.Network.Name
	}
	if result.DryRun {
		out.Calldata = NewCalldataJSON(result.Contract, result.Args, nil)
	}
	return out
}
