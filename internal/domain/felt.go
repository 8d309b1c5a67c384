package domain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// FieldPrime is the Starknet field modulus P = 2^251 + 17*2^192 + 1
var FieldPrime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

// Felt is a Starknet field element. The zero value is the felt 0.
type Felt struct {
	v uint256.Int
}

// FeltFromUint64 returns the felt for a small integer
func FeltFromUint64(x uint64) Felt {
	var f Felt
	f.v.SetUint64(x)
	return f
}

// FeltFromUint256 returns the felt for x, rejecting values outside the field
func FeltFromUint256(x *uint256.Int) (Felt, error) {
	if !x.Lt(FieldPrime) {
		return Felt{}, fmt.Errorf("%w: %s is not below the field prime", ErrInvalidFelt, x.Hex())
	}
	var f Felt
	f.v.Set(x)
	return f, nil
}

// FeltFromBytes interprets b as a big-endian integer
func FeltFromBytes(b []byte) (Felt, error) {
	if len(b) > 32 {
		return Felt{}, fmt.Errorf("%w: %d bytes", ErrInvalidFelt, len(b))
	}
	return FeltFromUint256(new(uint256.Int).SetBytes(b))
}

// ParseFelt parses a 0x-prefixed hex or a decimal string
func ParseFelt(s string) (Felt, error) {
	b, err := parseBig(s)
	if err != nil {
		return Felt{}, err
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return Felt{}, fmt.Errorf("%w: %q exceeds 256 bits", ErrInvalidFelt, s)
	}
	return FeltFromUint256(u)
}

// MustParseFelt is ParseFelt for constants
func MustParseFelt(s string) Felt {
	f, err := ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseBigInt parses a 0x-prefixed hex or decimal unsigned integer without
// any range limit
func ParseBigInt(s string) (*big.Int, error) {
	return parseBig(s)
}

func parseBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidFelt)
	}
	digits, base := s, 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits, base = s[2:], 16
	}
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFelt, s)
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFelt, s)
	}
	return b, nil
}

// FeltFromShortString encodes up to 31 ASCII characters as a felt
func FeltFromShortString(s string) (Felt, error) {
	if len(s) > 31 {
		return Felt{}, fmt.Errorf("%w: short string %q longer than 31 bytes", ErrInvalidFelt, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return Felt{}, fmt.Errorf("%w: short string %q is not ASCII", ErrInvalidFelt, s)
		}
	}
	return FeltFromBytes([]byte(s))
}

// ShortString decodes the felt as a Cairo short string
func (f Felt) ShortString() string {
	b := f.v.Bytes()
	return string(b)
}

// Hex renders the felt as minimal 0x-prefixed hex
func (f Felt) Hex() string {
	return f.v.Hex()
}

// PaddedHex renders the felt as 0x followed by 64 hex digits
func (f Felt) PaddedHex() string {
	b := f.v.Bytes32()
	return "0x" + hex.EncodeToString(b[:])
}

// Dec renders the felt in decimal
func (f Felt) Dec() string {
	return f.v.Dec()
}

func (f Felt) String() string {
	return f.Hex()
}

// Uint256 returns a copy of the underlying integer
func (f Felt) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&f.v)
}

func (f Felt) IsZero() bool {
	return f.v.IsZero()
}

func (f Felt) Equal(o Felt) bool {
	return f.v.Eq(&o.v)
}

func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

func (f *Felt) UnmarshalText(text []byte) error {
	parsed, err := ParseFelt(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FeltsToHex renders a felt slice as hex strings
func FeltsToHex(felts []Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.Hex()
	}
	return out
}

// FeltsToDec renders a felt slice as decimal strings
func FeltsToDec(felts []Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.Dec()
	}
	return out
}
