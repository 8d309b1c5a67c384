package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// DefaultPlanName names the state of a plan derived from the contract table
const DefaultPlanName = "all"

// Compose run states
const (
	ComposeRunning   = "running"
	ComposeFailed    = "failed"
	ComposeCompleted = "completed"
)

// ComposeDeployment deploys several contracts in dependency order. Each step
// is an ordinary deployment run; addresses reach later steps through the
// summary files.
type ComposeDeployment struct {
	config   *config.RuntimeConfig
	catalog  ContractCatalog
	deploy   *DeployContract
	state    ComposeStateStore
	confirm  Confirmer
	progress ComposeSink
	log      *slog.Logger
}

// NewComposeDeployment creates a new compose use case
func NewComposeDeployment(
	cfg *config.RuntimeConfig,
	catalog ContractCatalog,
	deploy *DeployContract,
	state ComposeStateStore,
	confirm Confirmer,
	progress ComposeSink,
	log *slog.Logger,
) *ComposeDeployment {
	return &ComposeDeployment{
		config:   cfg,
		catalog:  catalog,
		deploy:   deploy,
		state:    state,
		confirm:  confirm,
		progress: progress,
		log:      log.With("component", "ComposeDeployment"),
	}
}

// ComposeParams contains parameters for a compose run
type ComposeParams struct {
	PlanPath   string // empty derives the plan from depends_on
	Resume     bool
	DryRun     bool
	SkipVerify bool
	StrictDeps bool
}

// ComposeResult contains the result of a compose run
type ComposeResult struct {
	Plan          *ExecutionPlan
	ExecutedSteps []*StepResult
	SkippedSteps  []string // completed by a previous run
	FailedStep    *StepResult
	Success       bool
	Aborted       bool
}

// StepResult contains the result of executing a single step
type StepResult struct {
	Step   *ExecutionStep
	Deploy *DeployContractResult
	Error  error
}

// StepStateInfo is the persisted form of a StepResult
type StepStateInfo struct {
	Step    *ExecutionStep `json:"step"`
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Address string         `json:"address,omitempty"`
}

// ComposeState is written after every step so that --resume can continue
type ComposeState struct {
	PlanName         string                    `json:"plan_name"`
	PlanPath         string                    `json:"plan_path,omitempty"`
	Network          string                    `json:"network"`
	StartedAt        time.Time                 `json:"started_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
	Plan             *ExecutionPlan            `json:"plan"`
	ExecutedSteps    map[string]*StepStateInfo `json:"executed_steps"`
	CurrentStepIndex int                       `json:"current_step_index"`
	Status           string                    `json:"status"`
}

// Execute runs the plan. A failing step stops the run and is reported in
// the result; the returned error covers plan and state problems only.
func (uc *ComposeDeployment) Execute(ctx context.Context, params ComposeParams) (*ComposeResult, error) {
	planName := PlanName(params.PlanPath)

	var (
		state      *ComposeState
		plan       *ExecutionPlan
		startIndex int
	)

	if params.Resume {
		prev, err := uc.state.Load(ctx, planName)
		if err != nil {
			return nil, fmt.Errorf("failed to resume: %w", err)
		}
		if prev.Network != uc.config.Network.Name {
			return nil, fmt.Errorf("cannot resume: previous run targeted %s, not %s", prev.Network, uc.config.Network.Name)
		}
		if prev.Status == ComposeCompleted {
			return nil, fmt.Errorf("previous run of %s already completed successfully", planName)
		}
		state, plan, startIndex = prev, prev.Plan, prev.CurrentStepIndex

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageResumed,
			Current: startIndex,
			Total:   len(plan.Components),
		})
	} else {
		cfg, err := uc.loadConfig(params.PlanPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(uc.catalog); err != nil {
			return nil, fmt.Errorf("invalid compose plan: %w", err)
		}
		plan, err = CreateExecutionPlan(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create execution plan: %w", err)
		}
		state = &ComposeState{
			PlanName:      planName,
			PlanPath:      params.PlanPath,
			Network:       uc.config.Network.Name,
			StartedAt:     time.Now(),
			Plan:          plan,
			ExecutedSteps: make(map[string]*StepStateInfo),
			Status:        ComposeRunning,
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StagePlanCreated,
		Total:    len(plan.Components),
		Metadata: plan,
	})

	result := &ComposeResult{
		Plan:          plan,
		ExecutedSteps: make([]*StepResult, 0, len(plan.Components)),
		Success:       true,
	}
	for i := 0; i < startIndex; i++ {
		result.SkippedSteps = append(result.SkippedSteps, plan.Components[i].Name)
	}

	if !params.DryRun && !uc.config.AssumeYes && !uc.config.NonInteractive {
		ok, err := uc.confirm.Confirm(ctx, fmt.Sprintf("Deploy %d contract(s) on %s",
			len(plan.Components)-startIndex, uc.config.Network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Aborted = true
			result.Success = false
			return result, nil
		}
	}

	for i := startIndex; i < len(plan.Components); i++ {
		step := plan.Components[i]

		state.CurrentStepIndex = i
		state.Status = ComposeRunning
		uc.saveState(ctx, state, params)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageStepStarting,
			Current:  i + 1,
			Total:    len(plan.Components),
			Message:  step.Name,
			Metadata: step,
		})

		deployed, err := uc.deploy.Run(ctx, DeployContractParams{
			Contract:    step.Contract,
			Overrides:   step.Args,
			DryRun:      params.DryRun,
			SkipVerify:  params.SkipVerify,
			StrictDeps:  params.StrictDeps,
			SkipConfirm: true,
		})
		stepResult := &StepResult{Step: step, Deploy: deployed, Error: err}
		result.ExecutedSteps = append(result.ExecutedSteps, stepResult)

		info := &StepStateInfo{Step: step, Success: err == nil}
		if err != nil {
			info.Error = err.Error()
		} else if deployed != nil && deployed.Deploy != nil {
			info.Address = deployed.Deploy.Address.Hex()
		}
		state.ExecutedSteps[step.Name] = info

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageStepDone,
			Current:  i + 1,
			Total:    len(plan.Components),
			Metadata: stepResult,
		})

		if err != nil {
			result.FailedStep = stepResult
			result.Success = false
			state.Status = ComposeFailed
			uc.saveState(ctx, state, params)
			break
		}
	}

	if result.Success {
		state.Status = ComposeCompleted
		state.CurrentStepIndex = len(plan.Components)
		uc.saveState(ctx, state, params)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageComposeDone, Metadata: result})
	return result, nil
}

// saveState is best-effort; dry runs leave no state behind
func (uc *ComposeDeployment) saveState(ctx context.Context, state *ComposeState, params ComposeParams) {
	if params.DryRun {
		return
	}
	if err := uc.state.Save(ctx, state); err != nil {
		uc.log.Warn("failed to save compose state", "plan", state.PlanName, "error", err)
	}
}

func (uc *ComposeDeployment) loadConfig(path string) (*ComposeConfig, error) {
	if path == "" {
		return DeriveComposeConfig(uc.catalog.All()), nil
	}
	cfg, err := ParseComposeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compose plan: %w", err)
	}
	return cfg, nil
}

// PlanName is the state key of a plan: the file name without extension
func PlanName(path string) string {
	if path == "" {
		return DefaultPlanName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseComposeFile parses a YAML compose plan
func ParseComposeFile(path string) (*ComposeConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied plan
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg ComposeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for name, component := range cfg.Components {
		if component == nil {
			cfg.Components[name] = &ComponentConfig{}
		}
	}
	return &cfg, nil
}

// DeriveComposeConfig builds a plan covering the whole contract table,
// ordered by depends_on
func DeriveComposeConfig(contracts []models.ContractSpec) *ComposeConfig {
	cfg := &ComposeConfig{
		Group:      "inheritx",
		Components: make(map[string]*ComponentConfig, len(contracts)),
	}
	for _, c := range contracts {
		cfg.Components[c.Name] = &ComponentConfig{
			Contract: c.Name,
			Deps:     c.DependsOn,
		}
	}
	return cfg
}

// CreateExecutionPlan linearizes the configuration
func CreateExecutionPlan(cfg *ComposeConfig) (*ExecutionPlan, error) {
	steps, err := orderSteps(cfg)
	if err != nil {
		return nil, err
	}
	return &ExecutionPlan{
		Group:      cfg.Group,
		Components: steps,
	}, nil
}

// Compose configuration types

// ComposeConfig is the top-level shape of a compose plan file
type ComposeConfig struct {
	Group      string                      `yaml:"group"`
	Components map[string]*ComponentConfig `yaml:"components"`
}

// ComponentConfig is one step of a compose plan. Contract defaults to the
// component name.
type ComponentConfig struct {
	Contract string            `yaml:"contract,omitempty"`
	Deps     []string          `yaml:"deps,omitempty"`
	Args     map[string]string `yaml:"args,omitempty"`
}

// ExecutionPlan represents the linearized execution plan
type ExecutionPlan struct {
	Group      string           `json:"group"`
	Components []*ExecutionStep `json:"components"`
}

// ExecutionStep represents a single step in the execution plan
type ExecutionStep struct {
	Name         string            `json:"name"`
	Contract     string            `json:"contract"`
	Args         map[string]string `json:"args,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty"`
}

// Validate checks the plan for structural errors and unknown contracts
func (cfg *ComposeConfig) Validate(catalog ContractCatalog) error {
	if cfg.Group == "" {
		return fmt.Errorf("group name is required")
	}

	if len(cfg.Components) == 0 {
		return fmt.Errorf("at least one component is required")
	}

	for name, component := range cfg.Components {
		contract := component.contract(name)
		if _, err := catalog.Get(contract); err != nil {
			return fmt.Errorf("component '%s': %w", name, err)
		}

		for _, dep := range component.Deps {
			if dep == name {
				return fmt.Errorf("component '%s' cannot depend on itself", name)
			}

			if _, exists := cfg.Components[dep]; !exists {
				return fmt.Errorf("component '%s' depends on non-existent component '%s'", name, dep)
			}
		}
	}

	contracts := lo.MapToSlice(cfg.Components, func(name string, c *ComponentConfig) string {
		return strings.ToLower(c.contract(name))
	})
	if dups := lo.FindDuplicates(contracts); len(dups) > 0 {
		sort.Strings(dups)
		return fmt.Errorf("contract(s) %s appear in more than one component and would overwrite each other's summary",
			strings.Join(dups, ", "))
	}

	return nil
}

func (c *ComponentConfig) contract(name string) string {
	if c.Contract != "" {
		return c.Contract
	}
	return name
}

// orderSteps places components one at a time, always taking the
// alphabetically first one whose dependencies are already placed
func orderSteps(cfg *ComposeConfig) ([]*ExecutionStep, error) {
	pending := lo.Keys(cfg.Components)
	sort.Strings(pending)

	for _, name := range pending {
		for _, dep := range cfg.Components[name].Deps {
			if _, ok := cfg.Components[dep]; !ok {
				return nil, fmt.Errorf("component '%s' depends on non-existent component '%s'", name, dep)
			}
		}
	}

	placed := make(map[string]bool, len(pending))
	steps := make([]*ExecutionStep, 0, len(pending))
	for len(pending) > 0 {
		next := slices.IndexFunc(pending, func(name string) bool {
			return lo.EveryBy(cfg.Components[name].Deps, func(dep string) bool { return placed[dep] })
		})
		if next < 0 {
			return nil, fmt.Errorf("circular dependency detected involving components: %v", pending)
		}

		name := pending[next]
		component := cfg.Components[name]
		steps = append(steps, &ExecutionStep{
			Name:         name,
			Contract:     component.contract(name),
			Args:         component.Args,
			Dependencies: component.Deps,
		})
		placed[name] = true
		pending = slices.Delete(pending, next, next+1)
	}
	return steps, nil
}
