package starknet

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/inheritx/ixdeploy/internal/domain"
)

// Selector returns the entry point selector for a function name:
// keccak256 of the name truncated to 250 bits
func Selector(name string) domain.Felt {
	hash := crypto.Keccak256([]byte(name))
	hash[0] &= 0x03
	f, err := domain.FeltFromBytes(hash)
	if err != nil {
		// 250 bits are always below the field prime
		panic(err)
	}
	return f
}
