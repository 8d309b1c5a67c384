package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ContractSpec is one row of the contract table: everything that differs
// between the deployments of two contracts.
type ContractSpec struct {
	Name        string    `toml:"name" json:"name"`
	Artifact    string    `toml:"artifact" json:"artifact"`
	Output      string    `toml:"output" json:"output"`
	VerifyAdmin bool      `toml:"verify_admin" json:"verifyAdmin"`
	AdminGetter string    `toml:"admin_getter,omitempty" json:"adminGetter,omitempty"`
	AdminArg    string    `toml:"admin_arg,omitempty" json:"adminArg,omitempty"`
	DependsOn   []string  `toml:"depends_on,omitempty" json:"dependsOn,omitempty"`
	Args        []ArgSpec `toml:"args" json:"args"`
}

// ArgSpec describes where a constructor argument value comes from.
// Sources are tried in a fixed order, see usecase.ArgResolver.
type ArgSpec struct {
	Name        string `toml:"name" json:"name"`
	Env         string `toml:"env,omitempty" json:"env,omitempty"`
	Value       any    `toml:"value,omitempty" json:"value,omitempty"`
	Default     any    `toml:"default,omitempty" json:"default,omitempty"`
	DefaultFrom string `toml:"default_from,omitempty" json:"defaultFrom,omitempty"`
	Deployment  string `toml:"deployment,omitempty" json:"deployment,omitempty"`
	Fallback    string `toml:"fallback,omitempty" json:"fallback,omitempty"`
}

const (
	DefaultAdminGetter = "get_admin"
	DefaultAdminArg    = "admin"

	SierraSuffix = ".contract_class.json"
	CasmSuffix   = ".compiled_contract_class.json"
)

// SierraFile returns the file name of the high-level contract class
func (c *ContractSpec) SierraFile() string {
	return c.Artifact + SierraSuffix
}

// CasmFile returns the file name of the compiled contract class
func (c *ContractSpec) CasmFile() string {
	return c.Artifact + CasmSuffix
}

// Getter returns the admin getter entry point name
func (c *ContractSpec) Getter() string {
	if c.AdminGetter != "" {
		return c.AdminGetter
	}
	return DefaultAdminGetter
}

// AdminArgName returns the constructor argument holding the expected admin
func (c *ContractSpec) AdminArgName() string {
	if c.AdminArg != "" {
		return c.AdminArg
	}
	return DefaultAdminArg
}

// Arg returns the argument spec with the given name
func (c *ContractSpec) Arg(name string) (*ArgSpec, bool) {
	for i := range c.Args {
		if c.Args[i].Name == name {
			return &c.Args[i], true
		}
	}
	return nil, false
}

// Validate checks a single entry in isolation
func (c *ContractSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("contract name is required")
	}
	if c.Artifact == "" {
		return fmt.Errorf("contract %s: artifact is required", c.Name)
	}
	if c.Output == "" {
		return fmt.Errorf("contract %s: output is required", c.Name)
	}
	if filepath.Base(c.Output) != c.Output || filepath.Ext(c.Output) != ".json" {
		return fmt.Errorf("contract %s: output %q must be a plain .json file name", c.Name, c.Output)
	}

	seen := make(map[string]int, len(c.Args))
	for i, arg := range c.Args {
		if arg.Name == "" {
			return fmt.Errorf("contract %s: argument #%d has no name", c.Name, i)
		}
		if _, dup := seen[arg.Name]; dup {
			return fmt.Errorf("contract %s: duplicate argument %q", c.Name, arg.Name)
		}
		if arg.DefaultFrom != "" {
			if _, ok := seen[arg.DefaultFrom]; !ok {
				return fmt.Errorf("contract %s: argument %q defaults from %q which is not declared before it",
					c.Name, arg.Name, arg.DefaultFrom)
			}
		}
		if arg.Fallback != "" && arg.Deployment == "" {
			return fmt.Errorf("contract %s: argument %q has a fallback but no deployment lookup", c.Name, arg.Name)
		}
		seen[arg.Name] = i
	}

	for _, dep := range c.DependsOn {
		if strings.EqualFold(dep, c.Name) {
			return fmt.Errorf("contract %s cannot depend on itself", c.Name)
		}
	}
	return nil
}
