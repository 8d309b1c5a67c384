package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFelt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantHex string
		wantErr bool
	}{
		{name: "hex", input: "0x0123", wantHex: "0x123"},
		{name: "upper prefix", input: "0XAbC", wantHex: "0xabc"},
		{name: "decimal", input: "291", wantHex: "0x123"},
		{name: "zero", input: "0x0", wantHex: "0x0"},
		{name: "whitespace", input: "  42 ", wantHex: "0x2a"},
		{name: "largest felt", input: "0x800000000000011000000000000000000000000000000000000000000000000", wantHex: "0x800000000000011000000000000000000000000000000000000000000000000"},
		{name: "field prime", input: "0x800000000000011000000000000000000000000000000000000000000000001", wantErr: true},
		{name: "over 256 bits", input: "0x10000000000000000000000000000000000000000000000000000000000000000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bare prefix", input: "0x", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "garbage", input: "0xzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFelt(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFelt))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, f.Hex())
		})
	}
}

func TestFelt_Renderings(t *testing.T) {
	f := MustParseFelt("0x123")
	assert.Equal(t, "291", f.Dec())
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000123", f.PaddedHex())
	assert.True(t, f.Equal(FeltFromUint64(291)))
	assert.False(t, f.IsZero())
	assert.Equal(t, []string{"0x123", "0x0"}, FeltsToHex([]Felt{f, {}}))
	assert.Equal(t, []string{"291", "0"}, FeltsToDec([]Felt{f, {}}))
}

func TestFelt_ShortString(t *testing.T) {
	f, err := FeltFromShortString("SN_SEPOLIA")
	require.NoError(t, err)
	assert.Equal(t, "0x534e5f5345504f4c4941", f.Hex())
	assert.Equal(t, "SN_SEPOLIA", f.ShortString())

	_, err = FeltFromShortString("this string is much longer than 31 chars")
	assert.ErrorIs(t, err, ErrInvalidFelt)
	_, err = FeltFromShortString("é")
	assert.ErrorIs(t, err, ErrInvalidFelt)
}

func TestFelt_JSON(t *testing.T) {
	type wrapper struct {
		Address Felt `json:"address"`
	}
	data, err := json.Marshal(wrapper{Address: MustParseFelt("291")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"0x123"}`, string(data))

	var back wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"address":"0x0123"}`), &back))
	assert.True(t, back.Address.Equal(FeltFromUint64(0x123)))

	assert.Error(t, json.Unmarshal([]byte(`{"address":"nope"}`), &back))
}

func TestUnknownContractErr(t *testing.T) {
	err := UnknownContractErr{Name: "InheritXPlan", Suggestions: []string{"InheritXPlans"}}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "InheritXPlans")
}
