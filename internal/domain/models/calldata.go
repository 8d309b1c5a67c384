package models

import "github.com/inheritx/ixdeploy/internal/domain"

// ArgSource records which source produced a constructor argument value
type ArgSource string

const (
	ArgSourceOverride    ArgSource = "override"
	ArgSourceLiteral     ArgSource = "literal"
	ArgSourceEnv         ArgSource = "env"
	ArgSourceDeployment  ArgSource = "deployment"
	ArgSourceFallback    ArgSource = "fallback"
	ArgSourceDefault     ArgSource = "default"
	ArgSourceDefaultFrom ArgSource = "default_from"
)

// ResolvedArg is a constructor argument with its value and encoding
type ResolvedArg struct {
	Name   string
	Type   string
	Value  any
	Source ArgSource
	Detail string // env var name, dependency contract, etc.
	Felts  []domain.Felt
}

// ConstructorArgs is the ordered, immutable result of argument resolution
// and encoding
type ConstructorArgs struct {
	Args     []ResolvedArg
	Calldata []domain.Felt
}

// Get returns a resolved argument by name
func (c *ConstructorArgs) Get(name string) (*ResolvedArg, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Args {
		if c.Args[i].Name == name {
			return &c.Args[i], true
		}
	}
	return nil, false
}

// Inputs renders the raw values by name for display and persistence
func (c *ConstructorArgs) Inputs() map[string]string {
	if c == nil {
		return nil
	}
	out := make(map[string]string, len(c.Args))
	for _, arg := range c.Args {
		out[arg.Name] = FormatValue(arg.Value)
	}
	return out
}
