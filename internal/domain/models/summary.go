package models

import (
	"fmt"
	"time"

	"github.com/inheritx/ixdeploy/internal/domain"
)

// TimestampLayout matches ISO-8601 with millisecond precision in UTC
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Summary is the record persisted after a successful deployment
type Summary struct {
	Network           string            `json:"network"`
	Account           string            `json:"account"`
	ContractName      string            `json:"contractName"`
	ClassHash         string            `json:"classHash"`
	ContractAddress   string            `json:"contractAddress"`
	Tx                SummaryTx         `json:"tx"`
	ConstructorArgs   []string          `json:"constructorArgs"`
	ConstructorInputs map[string]string `json:"constructorInputs,omitempty"`
	RPCURL            string            `json:"rpcUrl,omitempty"`
	ChainID           string            `json:"chainId,omitempty"`
	Verification      *VerificationInfo `json:"verification,omitempty"`
	Timestamp         string            `json:"timestamp"`
}

// SummaryTx holds the two transaction hashes of a deployment. Declare is
// empty when the class was already declared.
type SummaryTx struct {
	Declare string `json:"declare"`
	Deploy  string `json:"deploy"`
}

// Address parses the recorded contract address
func (s *Summary) Address() (domain.Felt, error) {
	if s.ContractAddress == "" {
		return domain.Felt{}, fmt.Errorf("summary for %s has no contract address", s.ContractName)
	}
	return domain.ParseFelt(s.ContractAddress)
}

// DeployedAt parses the timestamp, returning the zero time when malformed
func (s *Summary) DeployedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimestamp renders t the way summaries store it
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StoredSummary is a summary together with the file it was read from
type StoredSummary struct {
	Path    string
	Summary *Summary
}
