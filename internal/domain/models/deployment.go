package models

import "github.com/inheritx/ixdeploy/internal/domain"

// DeployResult is what the declare-and-deploy backend reports
type DeployResult struct {
	ClassHash       domain.Felt
	Address         domain.Felt
	DeclareTxHash   *domain.Felt // nil when the class was already declared
	DeployTxHash    domain.Felt
	AlreadyDeclared bool
}

// DeclareTx renders the declare hash, empty when no declare was sent
func (r *DeployResult) DeclareTx() string {
	if r.DeclareTxHash == nil {
		return ""
	}
	return r.DeclareTxHash.Hex()
}

// Receipt is the subset of a transaction receipt the deployer cares about
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	FinalityStatus  string `json:"finality_status"`
	ExecutionStatus string `json:"execution_status"`
	RevertReason    string `json:"revert_reason,omitempty"`
	BlockNumber     uint64 `json:"block_number,omitempty"`
	BlockHash       string `json:"block_hash,omitempty"`
}

const (
	ExecutionSucceeded = "SUCCEEDED"
	ExecutionReverted  = "REVERTED"

	FinalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	FinalityAcceptedOnL1 = "ACCEPTED_ON_L1"
)

// Accepted reports whether the transaction reached L2 or L1 finality
func (r *Receipt) Accepted() bool {
	return r.FinalityStatus == FinalityAcceptedOnL2 || r.FinalityStatus == FinalityAcceptedOnL1
}

// VerificationStatus is the outcome of the post-deploy sanity check
type VerificationStatus string

const (
	VerificationPassed      VerificationStatus = "PASSED"
	VerificationMismatch    VerificationStatus = "MISMATCH"
	VerificationUnavailable VerificationStatus = "UNAVAILABLE"
	VerificationErrored     VerificationStatus = "ERROR"
	VerificationSkipped     VerificationStatus = "SKIPPED"
)

// VerificationInfo records what the post-deploy check saw
type VerificationInfo struct {
	Status   VerificationStatus `json:"status"`
	Getter   string             `json:"getter,omitempty"`
	Expected string             `json:"expected,omitempty"`
	Actual   string             `json:"actual,omitempty"`
	Detail   string             `json:"detail,omitempty"`
}
