package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidFelt is returned when a value is not a valid field element
	ErrInvalidFelt = errors.New("invalid felt")

	// ErrNetworkMismatch is returned when the node serves a different chain than requested
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrMissingCredentials is returned when the submitting account is not configured
	ErrMissingCredentials = errors.New("missing account credentials")

	// ErrInvalidArtifact is returned when a compiled artifact is missing or malformed
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrMissingArgument is returned when a constructor argument has no value
	ErrMissingArgument = errors.New("missing constructor argument")

	// ErrDeploymentFailed is returned when the declare-and-deploy submission fails.
	// It is the only failure after which the CLI exits with a non-zero status
	// having already talked to the network.
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrDependencyUnresolved is returned in strict mode when a dependency
	// summary cannot be read
	ErrDependencyUnresolved = errors.New("dependency address unresolved")
)

// UnknownContractErr is returned when a contract name is not in the table
type UnknownContractErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownContractErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown contract %q", e.Name)
	}
	return fmt.Sprintf("unknown contract %q, did you mean:\n  - %s",
		e.Name, strings.Join(e.Suggestions, "\n  - "))
}

func (e UnknownContractErr) Is(target error) bool {
	return target == ErrNotFound
}
