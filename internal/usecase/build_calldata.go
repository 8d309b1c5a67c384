package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// BuildCalldata loads a contract's artifacts and turns its constructor
// arguments into calldata. It never talks to the network.
type BuildCalldata struct {
	catalog  ContractCatalog
	loader   ArtifactLoader
	resolver *ArgResolver
	encoder  CalldataEncoder
	progress ProgressSink
	log      *slog.Logger
}

// NewBuildCalldata creates a new calldata use case
func NewBuildCalldata(
	catalog ContractCatalog,
	loader ArtifactLoader,
	resolver *ArgResolver,
	encoder CalldataEncoder,
	progress ProgressSink,
	log *slog.Logger,
) *BuildCalldata {
	if progress == nil {
		progress = NopProgress{}
	}
	return &BuildCalldata{
		catalog:  catalog,
		loader:   loader,
		resolver: resolver,
		encoder:  encoder,
		progress: progress,
		log:      log.With("component", "BuildCalldata"),
	}
}

// BuildCalldataParams contains parameters for building calldata
type BuildCalldataParams struct {
	Contract   string
	Overrides  map[string]string
	StrictDeps bool
}

// BuildCalldataResult contains the encoded constructor of one contract
type BuildCalldataResult struct {
	Contract  *models.ContractSpec
	Artifacts *models.ArtifactPair
	Args      *models.ConstructorArgs
	Warnings  []string
}

// Run loads artifacts, resolves arguments and encodes them
func (uc *BuildCalldata) Run(ctx context.Context, params BuildCalldataParams) (*BuildCalldataResult, error) {
	spec, err := uc.catalog.Get(params.Contract)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageArtifacts,
		Message: fmt.Sprintf("Loading %s artifacts", spec.Name),
		Spinner: true,
	})
	artifacts, err := uc.loader.Load(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts for %s: %w", spec.Name, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCalldata,
		Message: "Encoding constructor calldata",
		Spinner: true,
	})
	resolved, err := uc.resolver.Resolve(ctx, spec, ResolveArgsParams{
		Overrides:  params.Overrides,
		StrictDeps: params.StrictDeps,
	})
	if err != nil {
		return nil, err
	}

	args, err := uc.encoder.EncodeConstructor(artifacts.ABI, resolved.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to compile calldata for %s: %w", spec.Name, err)
	}

	result := &BuildCalldataResult{
		Contract:  spec,
		Artifacts: artifacts,
		Args:      args,
		Warnings:  resolved.Warnings,
	}

	// Values the constructor does not take are dropped by the encoder
	for _, arg := range resolved.Args {
		if _, used := args.Get(arg.Name); used {
			continue
		}
		warning := fmt.Sprintf("%s is not a constructor input of %s and was ignored", arg.Name, spec.Name)
		uc.log.Warn(warning)
		result.Warnings = append(result.Warnings, warning)
	}

	uc.log.Debug("calldata built",
		"contract", spec.Name,
		"inputs", lo.Map(args.Args, func(a models.ResolvedArg, _ int) string { return a.Name }),
		"felts", len(args.Calldata))

	return result, nil
}
