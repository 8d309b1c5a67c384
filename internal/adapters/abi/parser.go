package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inheritx/ixdeploy/internal/domain/models"
)

// ParseABI decodes the abi field of a Sierra contract class. Scarb writes it
// as a JSON array; older toolchains store the same array as a JSON string.
func ParseABI(raw json.RawMessage) (models.ABI, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("abi is missing")
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode abi string: %w", err)
		}
		raw = json.RawMessage(inner)
	}

	var abi models.ABI
	if err := json.Unmarshal(raw, &abi); err != nil {
		return nil, fmt.Errorf("failed to decode abi: %w", err)
	}
	return abi, nil
}

// Cairo core type paths
const (
	typeFelt            = "core::felt252"
	typeBool            = "core::bool"
	typeContractAddress = "core::starknet::contract_address::ContractAddress"
	typeClassHash       = "core::starknet::class_hash::ClassHash"
	typeEthAddress      = "core::starknet::eth_address::EthAddress"
	typeBytes31         = "core::bytes_31::bytes31"
	typeByteArray       = "core::byte_array::ByteArray"
	typeU256            = "core::integer::u256"
	typeArray           = "core::array::Array"
	typeSpan            = "core::array::Span"
	typeOption          = "core::option::Option"
	typeNonZero         = "core::zeroable::NonZero"
	typeUnit            = "()"

	integerPrefix = "core::integer::"
)

// splitGeneric splits "a::b::<T, U>" into "a::b" and [T, U]
func splitGeneric(t string) (string, []string) {
	i := strings.Index(t, "::<")
	if i < 0 || !strings.HasSuffix(t, ">") {
		return t, nil
	}
	return t[:i], splitTopLevel(t[i+3 : len(t)-1])
}

// tupleMembers returns the element types of "(A, B)", or false if t is not a tuple
func tupleMembers(t string) ([]string, bool) {
	if len(t) < 2 || t[0] != '(' || t[len(t)-1] != ')' {
		return nil, false
	}
	inner := strings.TrimSpace(t[1 : len(t)-1])
	if inner == "" {
		return nil, true
	}
	return splitTopLevel(inner), true
}

// splitTopLevel splits on commas that are not nested in <> or ()
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// integerWidth parses core::integer::uN / iN, returning bits and signedness
func integerWidth(t string) (bits int, signed bool, ok bool) {
	name, found := strings.CutPrefix(t, integerPrefix)
	if !found || len(name) < 2 {
		return 0, false, false
	}
	if name == "usize" {
		return 32, false, true
	}
	switch name[0] {
	case 'u':
	case 'i':
		signed = true
	default:
		return 0, false, false
	}
	switch name[1:] {
	case "8":
		bits = 8
	case "16":
		bits = 16
	case "32":
		bits = 32
	case "64":
		bits = 64
	case "128":
		bits = 128
	default:
		return 0, false, false
	}
	return bits, signed, true
}
