package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// AdminVerifier is the best-effort post-deploy sanity check: it reads the
// admin getter and compares it with the admin passed to the constructor.
// Nothing it finds is fatal.
type AdminVerifier struct {
	node StarknetNode
	log  *slog.Logger
}

// NewAdminVerifier creates a new admin verifier
func NewAdminVerifier(node StarknetNode, log *slog.Logger) *AdminVerifier {
	return &AdminVerifier{
		node: node,
		log:  log.With("component", "AdminVerifier"),
	}
}

// VerifyRequest describes the deployment to check
type VerifyRequest struct {
	Contract  *models.ContractSpec
	ABI       models.ABI // nil when the artifact could not be read
	Address   domain.Felt
	ClassHash *domain.Felt
	Expected  string // raw admin value, empty when unknown
}

// VerifyOutcome is the check result plus the warnings to surface
type VerifyOutcome struct {
	Info     *models.VerificationInfo
	Warnings []string
}

// Verify runs the getter check and, when a class hash is known, cross-checks
// the class deployed at the address
func (v *AdminVerifier) Verify(ctx context.Context, req VerifyRequest) *VerifyOutcome {
	out := &VerifyOutcome{}
	getter := req.Contract.Getter()
	info := &models.VerificationInfo{Getter: getter, Expected: req.Expected}
	out.Info = info

	if req.ClassHash != nil {
		if warning := v.checkClassHash(ctx, req.Address, *req.ClassHash); warning != "" {
			out.Warnings = append(out.Warnings, warning)
		}
	}

	if !req.Contract.VerifyAdmin {
		info.Status = models.VerificationSkipped
		info.Detail = "admin verification disabled for this contract"
		return out
	}

	if req.ABI != nil {
		if _, ok := req.ABI.Function(getter); !ok {
			info.Status = models.VerificationUnavailable
			info.Detail = fmt.Sprintf("%s not exposed by the ABI", getter)
			return out
		}
	}

	fail := func(detail string) *VerifyOutcome {
		info.Status = models.VerificationErrored
		info.Detail = detail
		out.Warnings = append(out.Warnings, "verification failed: "+detail)
		v.log.Warn("verification failed", "contract", req.Contract.Name, "detail", detail)
		return out
	}

	if req.Expected == "" {
		return fail(fmt.Sprintf("no %s value recorded to compare with", req.Contract.AdminArgName()))
	}
	expected, err := domain.ParseFelt(req.Expected)
	if err != nil {
		return fail(fmt.Sprintf("expected admin %q is not a felt: %v", req.Expected, err))
	}

	result, err := v.node.Call(ctx, req.Address, getter, nil)
	if err != nil {
		return fail(fmt.Sprintf("%s call failed: %v", getter, err))
	}
	if len(result) == 0 {
		return fail(fmt.Sprintf("%s returned no value", getter))
	}

	actual := result[0]
	info.Expected = expected.Hex()
	info.Actual = actual.Hex()
	if actual.Equal(expected) {
		info.Status = models.VerificationPassed
		return out
	}

	info.Status = models.VerificationMismatch
	info.Detail = fmt.Sprintf("%s returned %s, expected %s", getter, actual.Hex(), expected.Hex())
	out.Warnings = append(out.Warnings, "admin mismatch: "+info.Detail)
	v.log.Warn("admin mismatch", "contract", req.Contract.Name, "expected", expected.Hex(), "actual", actual.Hex())
	return out
}

func (v *AdminVerifier) checkClassHash(ctx context.Context, address, want domain.Felt) string {
	got, err := v.node.ClassHashAt(ctx, address)
	if err != nil {
		return fmt.Sprintf("could not read class hash at %s: %v", address.Hex(), err)
	}
	if !got.Equal(want) {
		return fmt.Sprintf("class hash at %s is %s, expected %s", address.Hex(), got.Hex(), want.Hex())
	}
	return ""
}

// VerifyDeployment re-runs the post-deploy check against a stored summary
type VerifyDeployment struct {
	catalog  ContractCatalog
	store    SummaryStore
	loader   ArtifactLoader
	verifier *AdminVerifier
	log      *slog.Logger
}

// NewVerifyDeployment creates a new verify use case
func NewVerifyDeployment(
	catalog ContractCatalog,
	store SummaryStore,
	loader ArtifactLoader,
	verifier *AdminVerifier,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		catalog:  catalog,
		store:    store,
		loader:   loader,
		verifier: verifier,
		log:      log.With("component", "VerifyDeployment"),
	}
}

// VerifyDeploymentResult contains the outcome of a verify run
type VerifyDeploymentResult struct {
	Contract *models.ContractSpec
	Summary  *models.Summary
	Info     *models.VerificationInfo
	Warnings []string
}

// Run loads the summary of contract and checks the live deployment
func (uc *VerifyDeployment) Run(ctx context.Context, contract string) (*VerifyDeploymentResult, error) {
	spec, err := uc.catalog.Get(contract)
	if err != nil {
		return nil, err
	}

	summary, err := uc.store.Load(ctx, spec.Output)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s has not been deployed from this directory: %w", spec.Name, err)
		}
		return nil, err
	}
	address, err := summary.Address()
	if err != nil {
		return nil, err
	}

	result := &VerifyDeploymentResult{Contract: spec, Summary: summary}

	req := VerifyRequest{
		Contract: spec,
		Address:  address,
		Expected: summary.ConstructorInputs[spec.AdminArgName()],
	}
	if classHash, err := domain.ParseFelt(summary.ClassHash); err == nil {
		req.ClassHash = &classHash
	}

	// Without the ABI the getter is called blind
	if artifacts, err := uc.loader.Load(ctx, spec); err == nil {
		req.ABI = artifacts.ABI
	} else {
		uc.log.Debug("artifact unavailable, skipping ABI check", "contract", spec.Name, "error", err)
	}

	outcome := uc.verifier.Verify(ctx, req)
	result.Info = outcome.Info
	result.Warnings = outcome.Warnings
	return result, nil
}
