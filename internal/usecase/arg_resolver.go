package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ArgResolver picks a value for every constructor argument of a contract.
// Sources are tried in order: operator override, literal value, environment
// variable, dependency summary lookup, default, default_from.
type ArgResolver struct {
	catalog ContractCatalog
	store   SummaryStore
	env     EnvLookup
	log     *slog.Logger
}

// NewArgResolver creates a new argument resolver
func NewArgResolver(catalog ContractCatalog, store SummaryStore, env EnvLookup, log *slog.Logger) *ArgResolver {
	return &ArgResolver{
		catalog: catalog,
		store:   store,
		env:     env,
		log:     log.With("component", "ArgResolver"),
	}
}

// ResolveArgsParams contains the per-run inputs of argument resolution
type ResolveArgsParams struct {
	Overrides  map[string]string
	StrictDeps bool
}

// ResolvedArgs is the outcome of argument resolution
type ResolvedArgs struct {
	Args     []models.ResolvedArg
	Warnings []string
}

// Resolve walks the argument specs in table order. Overrides naming an
// argument the table does not list are appended so that constructor inputs
// missing from the table can still be supplied.
func (r *ArgResolver) Resolve(ctx context.Context, spec *models.ContractSpec, params ResolveArgsParams) (*ResolvedArgs, error) {
	result := &ResolvedArgs{Args: make([]models.ResolvedArg, 0, len(spec.Args))}
	values := make(map[string]any, len(spec.Args))

	for _, argSpec := range spec.Args {
		arg, warning, err := r.resolveOne(ctx, spec, argSpec, values, params)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			r.log.Warn(warning, "contract", spec.Name, "arg", argSpec.Name)
			result.Warnings = append(result.Warnings, warning)
		}
		values[arg.Name] = arg.Value
		result.Args = append(result.Args, arg)
	}

	extra := make([]string, 0)
	for name := range params.Overrides {
		if _, known := spec.Arg(name); !known {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		result.Args = append(result.Args, models.ResolvedArg{
			Name:   name,
			Value:  params.Overrides[name],
			Source: models.ArgSourceOverride,
		})
	}

	return result, nil
}

func (r *ArgResolver) resolveOne(
	ctx context.Context,
	spec *models.ContractSpec,
	argSpec models.ArgSpec,
	resolved map[string]any,
	params ResolveArgsParams,
) (models.ResolvedArg, string, error) {
	arg := models.ResolvedArg{Name: argSpec.Name}

	if v, ok := params.Overrides[argSpec.Name]; ok {
		arg.Value, arg.Source = v, models.ArgSourceOverride
		return arg, "", nil
	}

	if argSpec.Value != nil {
		arg.Value, arg.Source = argSpec.Value, models.ArgSourceLiteral
		return arg, "", nil
	}

	if argSpec.Env != "" {
		if v, ok := r.lookupEnv(argSpec.Env); ok {
			arg.Value, arg.Source, arg.Detail = v, models.ArgSourceEnv, argSpec.Env
			return arg, "", nil
		}
	}

	var warning string
	if argSpec.Deployment != "" {
		address, err := r.lookupDeployment(ctx, argSpec.Deployment)
		if err == nil {
			arg.Value, arg.Source, arg.Detail = address, models.ArgSourceDeployment, argSpec.Deployment
			return arg, "", nil
		}
		if params.StrictDeps {
			return arg, "", fmt.Errorf("%w: %s.%s reads the %s deployment: %v",
				domain.ErrDependencyUnresolved, spec.Name, argSpec.Name, argSpec.Deployment, err)
		}
		if argSpec.Fallback != "" {
			warning = fmt.Sprintf("could not read %s deployment (%v); using placeholder %s=%s",
				argSpec.Deployment, err, argSpec.Name, argSpec.Fallback)
			arg.Value, arg.Source, arg.Detail = argSpec.Fallback, models.ArgSourceFallback, argSpec.Deployment
			return arg, warning, nil
		}
		warning = fmt.Sprintf("could not read %s deployment (%v)", argSpec.Deployment, err)
	}

	if argSpec.Default != nil {
		arg.Value, arg.Source = argSpec.Default, models.ArgSourceDefault
		return arg, warning, nil
	}

	if argSpec.DefaultFrom != "" {
		if v, ok := resolved[argSpec.DefaultFrom]; ok {
			arg.Value, arg.Source, arg.Detail = v, models.ArgSourceDefaultFrom, argSpec.DefaultFrom
			return arg, warning, nil
		}
	}

	hint := ""
	if argSpec.Env != "" {
		hint = fmt.Sprintf("; set %s or pass --arg %s=<value>", argSpec.Env, argSpec.Name)
	} else {
		hint = fmt.Sprintf("; pass --arg %s=<value>", argSpec.Name)
	}
	return arg, "", fmt.Errorf("%w: %s.%s has no value%s", domain.ErrMissingArgument, spec.Name, argSpec.Name, hint)
}

func (r *ArgResolver) lookupEnv(key string) (string, bool) {
	if r.env == nil {
		return "", false
	}
	v, ok := r.env(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// lookupDeployment reads the contract address recorded by a prior run of dep
func (r *ArgResolver) lookupDeployment(ctx context.Context, dep string) (string, error) {
	depSpec, err := r.catalog.Get(dep)
	if err != nil {
		return "", err
	}
	summary, err := r.store.Load(ctx, depSpec.Output)
	if err != nil {
		return "", err
	}
	address, err := summary.Address()
	if err != nil {
		return "", err
	}
	return address.Hex(), nil
}
