package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ContractTableFile is the optional project-level override of the built-in table
const ContractTableFile = "deploy.toml"

//go:embed contracts.toml
var builtinContracts []byte

// contractTable is the on-disk shape of contracts.toml and deploy.toml
type contractTable struct {
	// Replace drops the built-in table instead of merging into it
	Replace  bool                  `toml:"replace"`
	Contract []models.ContractSpec `toml:"contract"`
}

// BuiltinContracts returns the embedded contract table
func BuiltinContracts() ([]models.ContractSpec, error) {
	table, err := decodeContractTable(builtinContracts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in contract table: %w", err)
	}
	return table.Contract, nil
}

// LoadContractTable returns the built-in table merged with deploy.toml from
// the project root, if one exists. Entries in deploy.toml replace built-in
// entries of the same name and new names are appended.
func LoadContractTable(projectRoot string) ([]models.ContractSpec, error) {
	contracts, err := BuiltinContracts()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(projectRoot, ContractTableFile)
	data, err := os.ReadFile(path) //nolint:gosec // project file
	if err != nil {
		if os.IsNotExist(err) {
			return contracts, ValidateContractTable(contracts)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ContractTableFile, err)
	}

	override, err := decodeContractTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ContractTableFile, err)
	}

	if override.Replace {
		contracts = override.Contract
	} else {
		contracts = MergeContractTables(contracts, override.Contract)
	}

	return contracts, ValidateContractTable(contracts)
}

// MergeContractTables overlays entries by name, keeping base order
func MergeContractTables(base, overlay []models.ContractSpec) []models.ContractSpec {
	merged := make([]models.ContractSpec, 0, len(base)+len(overlay))
	for _, spec := range base {
		if replacement, ok := lo.Find(overlay, func(o models.ContractSpec) bool {
			return strings.EqualFold(o.Name, spec.Name)
		}); ok {
			merged = append(merged, replacement)
			continue
		}
		merged = append(merged, spec)
	}
	for _, spec := range overlay {
		if !lo.ContainsBy(base, func(b models.ContractSpec) bool {
			return strings.EqualFold(b.Name, spec.Name)
		}) {
			merged = append(merged, spec)
		}
	}
	return merged
}

// ValidateContractTable checks entries and cross-entry references
func ValidateContractTable(contracts []models.ContractSpec) error {
	if len(contracts) == 0 {
		return fmt.Errorf("contract table is empty")
	}

	names := make(map[string]bool, len(contracts))
	outputs := make(map[string]string, len(contracts))
	for i := range contracts {
		spec := &contracts[i]
		if err := spec.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(spec.Name)
		if names[key] {
			return fmt.Errorf("duplicate contract %q", spec.Name)
		}
		names[key] = true

		if other, taken := outputs[spec.Output]; taken {
			return fmt.Errorf("contracts %s and %s both write %s", other, spec.Name, spec.Output)
		}
		outputs[spec.Output] = spec.Name
	}

	for _, spec := range contracts {
		for _, dep := range spec.DependsOn {
			if !names[strings.ToLower(dep)] {
				return fmt.Errorf("contract %s depends on unknown contract %q", spec.Name, dep)
			}
		}
		for _, arg := range spec.Args {
			if arg.Deployment != "" && !names[strings.ToLower(arg.Deployment)] {
				return fmt.Errorf("contract %s: argument %q reads unknown deployment %q",
					spec.Name, arg.Name, arg.Deployment)
			}
		}
	}
	return nil
}

func decodeContractTable(data []byte) (*contractTable, error) {
	var table contractTable
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&table)
	if err != nil {
		return nil, err
	}
	// Free-form argument values (tables, arrays of tables) are not typos
	undecoded := lo.Filter(md.Undecoded(), func(k toml.Key, _ int) bool {
		return !lo.Contains(k, "value") && !lo.Contains(k, "default")
	})
	if len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &table, nil
}
