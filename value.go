package fuelabi

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Decoded values always use these Go representations:
//
//	u8, u16, u32, u64      uint8, uint16, uint32, uint64
//	u256                   *uint256.Int
//	bool                   bool
//	b256                   common.Hash
//	str[N], str, String    string (str[N] without its zero padding)
//	Bytes, raw slice       []byte
//	array, vector, tuple   []any
//	struct                 map[string]any
//	enum                   Enum
//	Option                 Option
//	()                     nil
//
// Encoding accepts these plus the conversions documented on each helper.

// Enum is the value of an enum type: the active variant and its payload.
// Unit variants carry a nil Value.
type Enum struct {
	Variant string
	Value   any
}

// NewEnum creates an enum value.
func NewEnum(variant string, value any) Enum {
	return Enum{Variant: variant, Value: value}
}

// String renders the enum as Variant(value).
func (e Enum) String() string {
	if e.Value == nil {
		return e.Variant
	}
	return fmt.Sprintf("%s(%v)", e.Variant, e.Value)
}

// Option is the value of an Option type.
type Option struct {
	Valid bool
	Value any
}

// Some creates a present option.
func Some(v any) Option {
	return Option{Valid: true, Value: v}
}

// None creates an absent option.
func None() Option {
	return Option{}
}

// Get returns the inner value and whether it is present.
func (o Option) Get() (any, bool) {
	return o.Value, o.Valid
}

// String renders the option as Some(value) or None.
func (o Option) String() string {
	if !o.Valid {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// maxForKind returns the largest value representable by an integer kind
// narrower than u256.
func maxForKind(k Kind) uint64 {
	switch k {
	case KindU8:
		return math.MaxUint8
	case KindU16:
		return math.MaxUint16
	case KindU32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// toUint64 converts any Go integer, *big.Int or *uint256.Int.
func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case int:
		return signedToUint64(int64(n))
	case int8:
		return signedToUint64(int64(n))
	case int16:
		return signedToUint64(int64(n))
	case int32:
		return signedToUint64(int64(n))
	case int64:
		return signedToUint64(n)
	case *big.Int:
		if n == nil || n.Sign() < 0 || !n.IsUint64() {
			return 0, fmt.Errorf("%v does not fit in 64 bits", n)
		}
		return n.Uint64(), nil
	case *uint256.Int:
		if n == nil || !n.IsUint64() {
			return 0, fmt.Errorf("%v does not fit in 64 bits", n)
		}
		return n.Uint64(), nil
	default:
		return 0, fmt.Errorf("not an integer")
	}
}

func signedToUint64(n int64) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return uint64(n), nil
}

// toU256 converts integers, *big.Int, *uint256.Int and hex ("0x...") or
// decimal strings.
func toU256(v any) (*uint256.Int, error) {
	switch n := v.(type) {
	case *uint256.Int:
		if n == nil {
			return nil, fmt.Errorf("nil value")
		}
		return n.Clone(), nil
	case uint256.Int:
		return n.Clone(), nil
	case *big.Int:
		if n == nil || n.Sign() < 0 {
			return nil, fmt.Errorf("%v is not an unsigned 256-bit value", n)
		}
		x, overflow := uint256.FromBig(n)
		if overflow {
			return nil, fmt.Errorf("%v overflows 256 bits", n)
		}
		return x, nil
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(n), 0)
		if !ok {
			return nil, fmt.Errorf("%q is not a number", n)
		}
		return toU256(b)
	default:
		u, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		return uint256.NewInt(u), nil
	}
}

// toHash converts common.Hash, [32]byte, a 32-byte slice or a 0x-prefixed
// hex string.
func toHash(v any) (common.Hash, error) {
	switch h := v.(type) {
	case common.Hash:
		return h, nil
	case [32]byte:
		return common.Hash(h), nil
	case []byte:
		if len(h) != common.HashLength {
			return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(h))
		}
		return common.BytesToHash(h), nil
	case string:
		b, err := hexutil.Decode(h)
		if err != nil {
			return common.Hash{}, err
		}
		if len(b) != common.HashLength {
			return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(b))
		}
		return common.BytesToHash(b), nil
	default:
		return common.Hash{}, fmt.Errorf("not a 32-byte value")
	}
}

// toSlice converts []any, []byte and any other Go slice or array.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []byte:
		out := make([]any, len(s))
		for i, b := range s {
			out[i] = b
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toBytes converts []byte, string and slices of small integers.
func toBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	items, ok := toSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(items))
	for i, item := range items {
		n, err := toUint64(item)
		if err != nil || n > math.MaxUint8 {
			return nil, false
		}
		out[i] = byte(n)
	}
	return out, true
}

// toEnum accepts Enum, *Enum and a bare variant name for unit variants.
func toEnum(v any) (Enum, bool) {
	switch e := v.(type) {
	case Enum:
		return e, true
	case *Enum:
		if e == nil {
			return Enum{}, false
		}
		return *e, true
	case string:
		return Enum{Variant: e}, true
	default:
		return Enum{}, false
	}
}

// toOption accepts Option, *Option, nil (None) and Enum{"None"|"Some"}.
func toOption(v any) (Option, bool) {
	switch o := v.(type) {
	case nil:
		return Option{}, true
	case Option:
		return o, true
	case *Option:
		if o == nil {
			return Option{}, true
		}
		return *o, true
	case Enum:
		switch o.Variant {
		case "None":
			return Option{}, true
		case "Some":
			return Some(o.Value), true
		}
	}
	return Option{}, false
}
