package abi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/samber/lo"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/models"
)

const byteArrayChunk = 31

var fieldMod = domain.FieldPrime.ToBig()

// Encoder serializes constructor values to Cairo calldata
type Encoder struct {
	log *slog.Logger
}

// NewEncoder creates a new calldata encoder
func NewEncoder(log *slog.Logger) *Encoder {
	return &Encoder{log: log.With("component", "CalldataEncoder")}
}

// EncodeConstructor orders args by the constructor inputs and encodes each one
func (e *Encoder) EncodeConstructor(abi models.ABI, args []models.ResolvedArg) (*models.ConstructorArgs, error) {
	var inputs []models.ABIParam
	if ctor, ok := abi.Constructor(); ok {
		inputs = ctor.Inputs
	}

	out := &models.ConstructorArgs{
		Args:     make([]models.ResolvedArg, 0, len(inputs)),
		Calldata: []domain.Felt{},
	}
	for _, input := range inputs {
		arg, found := lo.Find(args, func(a models.ResolvedArg) bool { return a.Name == input.Name })
		if !found {
			return nil, fmt.Errorf("%w: constructor input %q (%s) has no value",
				domain.ErrMissingArgument, input.Name, input.Type)
		}

		felts, err := e.Encode(abi, input.Type, arg.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s (%s): %w", input.Name, input.Type, err)
		}
		e.log.Debug("encoded constructor input", "name", input.Name, "type", input.Type, "felts", len(felts))

		arg.Type = input.Type
		arg.Felts = felts
		out.Args = append(out.Args, arg)
		out.Calldata = append(out.Calldata, felts...)
	}
	return out, nil
}

// Encode serializes a single value of the given Cairo type
func (e *Encoder) Encode(abi models.ABI, typ string, value any) ([]domain.Felt, error) {
	w := &writer{abi: abi}
	if err := w.write(strings.TrimSpace(typ), value); err != nil {
		return nil, err
	}
	return w.out, nil
}

type writer struct {
	abi models.ABI
	out []domain.Felt
}

func (w *writer) push(felts ...domain.Felt) {
	w.out = append(w.out, felts...)
}

func (w *writer) write(typ string, value any) error {
	switch typ {
	case typeFelt:
		f, err := toFelt(value, true)
		if err != nil {
			return err
		}
		w.push(f)
		return nil
	case typeContractAddress, typeClassHash, typeEthAddress, typeBytes31:
		f, err := toFelt(value, false)
		if err != nil {
			return err
		}
		if typ == typeContractAddress && f.Uint256().BitLen() > 251 {
			return fmt.Errorf("%s is not a contract address: must be below 2^251", f.Hex())
		}
		if typ == typeEthAddress && f.Uint256().BitLen() > 160 {
			return fmt.Errorf("%s does not fit in 160 bits", f.Hex())
		}
		if typ == typeBytes31 && f.Uint256().BitLen() > 248 {
			return fmt.Errorf("%s does not fit in 31 bytes", f.Hex())
		}
		w.push(f)
		return nil
	case typeBool:
		b, err := toBool(value)
		if err != nil {
			return err
		}
		if b {
			w.push(domain.FeltFromUint64(1))
		} else {
			w.push(domain.FeltFromUint64(0))
		}
		return nil
	case typeU256:
		return w.writeU256(value)
	case typeByteArray:
		return w.writeByteArray(value)
	case typeUnit:
		return nil
	}

	if bits, signed, ok := integerWidth(typ); ok {
		f, err := toInteger(value, bits, signed)
		if err != nil {
			return err
		}
		w.push(f)
		return nil
	}

	if members, ok := tupleMembers(typ); ok {
		return w.writeTuple(members, value)
	}

	base, params := splitGeneric(typ)
	switch base {
	case typeArray, typeSpan:
		if len(params) != 1 {
			return fmt.Errorf("malformed array type %q", typ)
		}
		return w.writeArray(params[0], value)
	case typeNonZero:
		if len(params) != 1 {
			return fmt.Errorf("malformed type %q", typ)
		}
		before := len(w.out)
		if err := w.write(params[0], value); err != nil {
			return err
		}
		for _, f := range w.out[before:] {
			if !f.IsZero() {
				return nil
			}
		}
		return fmt.Errorf("value of %s must be non-zero", typ)
	case typeOption:
		if len(params) != 1 {
			return fmt.Errorf("malformed option type %q", typ)
		}
		if _, isMap := value.(map[string]any); !isMap {
			if isEmpty(value) {
				w.push(domain.FeltFromUint64(1))
				return nil
			}
			w.push(domain.FeltFromUint64(0))
			return w.write(params[0], value)
		}
	}

	if def, ok := w.abi.Struct(typ); ok {
		return w.writeStruct(def, value)
	}
	if def, ok := w.abi.Enum(typ); ok {
		return w.writeEnum(def, value)
	}
	return fmt.Errorf("unsupported type %q", typ)
}

func (w *writer) writeU256(value any) error {
	if m, ok := value.(map[string]any); ok {
		low, err := toInteger(m["low"], 128, false)
		if err != nil {
			return fmt.Errorf("low: %w", err)
		}
		high, err := toInteger(m["high"], 128, false)
		if err != nil {
			return fmt.Errorf("high: %w", err)
		}
		w.push(low, high)
		return nil
	}

	b, err := toBig(value)
	if err != nil {
		return err
	}
	if b.Sign() < 0 {
		return fmt.Errorf("u256 cannot be negative")
	}
	x, overflow := uint256.FromBig(b)
	if overflow {
		return fmt.Errorf("%s does not fit in u256", b)
	}

	mask := new(uint256.Int).SetAllOne()
	mask.Rsh(mask, 128)
	low := new(uint256.Int).And(x, mask)
	high := new(uint256.Int).Rsh(x, 128)

	lowFelt, _ := domain.FeltFromUint256(low)
	highFelt, _ := domain.FeltFromUint256(high)
	w.push(lowFelt, highFelt)
	return nil
}

func (w *writer) writeByteArray(value any) error {
	s, ok := value.(string)
	if !ok {
		s = models.FormatValue(value)
	}
	data := []byte(s)

	full := len(data) / byteArrayChunk
	w.push(domain.FeltFromUint64(uint64(full)))
	for i := 0; i < full; i++ {
		f, err := domain.FeltFromBytes(data[i*byteArrayChunk : (i+1)*byteArrayChunk])
		if err != nil {
			return err
		}
		w.push(f)
	}

	pending := data[full*byteArrayChunk:]
	word, err := domain.FeltFromBytes(pending)
	if err != nil {
		return err
	}
	w.push(word, domain.FeltFromUint64(uint64(len(pending))))
	return nil
}

func (w *writer) writeArray(elem string, value any) error {
	items, err := toList(value)
	if err != nil {
		return err
	}
	w.push(domain.FeltFromUint64(uint64(len(items))))
	for i, item := range items {
		if err := w.write(elem, item); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

func (w *writer) writeTuple(members []string, value any) error {
	items, err := toList(value)
	if err != nil {
		return err
	}
	if len(items) != len(members) {
		return fmt.Errorf("tuple needs %d elements, got %d", len(members), len(items))
	}
	for i, member := range members {
		if err := w.write(member, items[i]); err != nil {
			return fmt.Errorf("(%d): %w", i, err)
		}
	}
	return nil
}

func (w *writer) writeStruct(def *models.ABIEntry, value any) error {
	fields, err := toMap(value)
	if err != nil {
		return fmt.Errorf("%s: %w", def.Name, err)
	}
	for _, member := range def.Members {
		v, ok := fields[member.Name]
		if !ok {
			return fmt.Errorf("%s: missing member %q", def.Name, member.Name)
		}
		if err := w.write(member.Type, v); err != nil {
			return fmt.Errorf("%s.%s: %w", def.Name, member.Name, err)
		}
	}
	return nil
}

func (w *writer) writeEnum(def *models.ABIEntry, value any) error {
	variant, payload := "", any(nil)
	switch v := value.(type) {
	case string:
		variant = strings.TrimSpace(v)
		if strings.HasPrefix(variant, "{") {
			m, err := toMap(variant)
			if err != nil {
				return err
			}
			return w.writeEnum(def, m)
		}
	case map[string]any:
		if len(v) != 1 {
			return fmt.Errorf("%s: enum value must name exactly one variant", def.Name)
		}
		for k, p := range v {
			variant, payload = k, p
		}
	default:
		return fmt.Errorf("%s: cannot use %T as an enum value", def.Name, value)
	}

	for i, candidate := range def.Variants {
		if candidate.Name != variant {
			continue
		}
		w.push(domain.FeltFromUint64(uint64(i)))
		return w.write(candidate.Type, payload)
	}
	names := lo.Map(def.Variants, func(p models.ABIParam, _ int) string { return p.Name })
	return fmt.Errorf("%s has no variant %q (variants: %s)", def.Name, variant, strings.Join(names, ", "))
}

func toFelt(value any, allowShortString bool) (domain.Felt, error) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if allowShortString && !isNumeric(s) {
			return domain.FeltFromShortString(s)
		}
	}
	b, err := toBig(value)
	if err != nil {
		return domain.Felt{}, err
	}
	return feltFromBig(b)
}

func toInteger(value any, bits int, signed bool) (domain.Felt, error) {
	b, err := toBig(value)
	if err != nil {
		return domain.Felt{}, err
	}

	var minV, maxV *big.Int
	if signed {
		minV = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
		maxV = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
	} else {
		minV = big.NewInt(0)
		maxV = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	}
	if b.Cmp(minV) < 0 || b.Cmp(maxV) > 0 {
		kind := "u"
		if signed {
			kind = "i"
		}
		return domain.Felt{}, fmt.Errorf("%s out of range for %s%d", b, kind, bits)
	}
	return feltFromBig(b)
}

// feltFromBig maps negative values to P - |v|
func feltFromBig(b *big.Int) (domain.Felt, error) {
	if b.Sign() < 0 {
		b = new(big.Int).Add(fieldMod, b)
		if b.Sign() < 0 {
			return domain.Felt{}, fmt.Errorf("%w: below -P", domain.ErrInvalidFelt)
		}
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return domain.Felt{}, fmt.Errorf("%w: %s exceeds 256 bits", domain.ErrInvalidFelt, b)
	}
	return domain.FeltFromUint256(u)
}

func toBig(value any) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("value is empty")
	case string:
		return parseSigned(v)
	case json.Number:
		return parseSigned(v.String())
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		b, _ := big.NewFloat(v).Int(nil)
		return b, nil
	case bool:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case domain.Felt:
		return v.Uint256().ToBig(), nil
	default:
		return nil, fmt.Errorf("cannot use %T as a number", value)
	}
}

func parseSigned(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	b, err := domain.ParseBigInt(strings.TrimPrefix(s, "-"))
	if err != nil {
		return nil, err
	}
	if neg {
		b.Neg(b)
	}
	return b, nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "0x1":
			return true, nil
		case "false", "0", "0x0":
			return false, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, fmt.Errorf("cannot use %v as a bool", value)
}

// toList accepts a decoded list, a JSON array string or a comma separated string
func toList(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case []string:
		return lo.Map(v, func(s string, _ int) any { return s }), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return []any{}, nil
		}
		if strings.HasPrefix(s, "[") {
			var items []any
			if err := decodeJSON(s, &items); err != nil {
				return nil, fmt.Errorf("invalid list %q: %w", s, err)
			}
			return items, nil
		}
		return lo.Map(strings.Split(s, ","), func(item string, _ int) any {
			return strings.TrimSpace(item)
		}), nil
	default:
		return nil, fmt.Errorf("cannot use %T as a list", value)
	}
}

func toMap(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := decodeJSON(v, &m); err != nil {
			return nil, fmt.Errorf("invalid object %q: %w", v, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("cannot use %T as an object", value)
	}
}

func decodeJSON(s string, out any) error {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	return dec.Decode(out)
}

func isNumeric(s string) bool {
	_, err := parseSigned(s)
	return err == nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}
