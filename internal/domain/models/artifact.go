package models

import "encoding/json"

// ArtifactPair holds the two compiled forms of a contract as read from disk.
// Sierra and Casm are passed to the declare step unmodified.
type ArtifactPair struct {
	Contract   string
	SierraPath string
	CasmPath   string
	Sierra     json.RawMessage
	Casm       json.RawMessage
	ABI        ABI
}

// ABI is a Cairo 1 contract ABI
type ABI []ABIEntry

// ABIEntry is one item of a Cairo ABI. Which fields are set depends on Type.
type ABIEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	Members         []ABIParam `json:"members,omitempty"`
	Variants        []ABIParam `json:"variants,omitempty"`
	Items           []ABIEntry `json:"items,omitempty"`
	StateMutability string     `json:"state_mutability,omitempty"`
	InterfaceName   string     `json:"interface_name,omitempty"`
}

// ABIParam is a named (or, for outputs, unnamed) typed slot
type ABIParam struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

const (
	ABIConstructor = "constructor"
	ABIFunction    = "function"
	ABIInterface   = "interface"
	ABIStruct      = "struct"
	ABIEnum        = "enum"
)

// Constructor returns the constructor entry if the contract has one
func (a ABI) Constructor() (*ABIEntry, bool) {
	for i := range a {
		if a[i].Type == ABIConstructor {
			return &a[i], true
		}
	}
	return nil, false
}

// Function finds a function by name, looking inside interfaces as well
func (a ABI) Function(name string) (*ABIEntry, bool) {
	for i := range a {
		switch a[i].Type {
		case ABIFunction:
			if a[i].Name == name {
				return &a[i], true
			}
		case ABIInterface:
			if fn, ok := ABI(a[i].Items).Function(name); ok {
				return fn, true
			}
		}
	}
	return nil, false
}

// Struct finds a struct definition by its full type path
func (a ABI) Struct(name string) (*ABIEntry, bool) {
	return a.find(ABIStruct, name)
}

// Enum finds an enum definition by its full type path
func (a ABI) Enum(name string) (*ABIEntry, bool) {
	return a.find(ABIEnum, name)
}

func (a ABI) find(kind, name string) (*ABIEntry, bool) {
	for i := range a {
		if a[i].Type == kind && a[i].Name == name {
			return &a[i], true
		}
	}
	return nil, false
}
