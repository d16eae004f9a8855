package fuelabi

import (
	"regexp"
	"strconv"
	"strings"
)

// Wire format constants.
const (
	// WordSize is the VM's native word in bytes.
	WordSize = 8

	// DiscriminantSize is the width of an enum or option tag.
	DiscriminantSize = WordSize

	// DescriptorSize is the inline size of a dynamic value: pointer, length, capacity.
	DescriptorSize = 3 * WordSize
)

// Kind classifies a resolved type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindU256
	KindBool
	KindB256
	KindStringFixed
	KindString
	KindBytes
	KindArray
	KindVector
	KindTuple
	KindStruct
	KindEnum
	KindOption
	KindUnit
	KindGeneric
	KindOpaque
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindU8:          "u8",
	KindU16:         "u16",
	KindU32:         "u32",
	KindU64:         "u64",
	KindU256:        "u256",
	KindBool:        "bool",
	KindB256:        "b256",
	KindStringFixed: "str[N]",
	KindString:      "string",
	KindBytes:       "bytes",
	KindArray:       "array",
	KindVector:      "vector",
	KindTuple:       "tuple",
	KindStruct:      "struct",
	KindEnum:        "enum",
	KindOption:      "option",
	KindUnit:        "unit",
	KindGeneric:     "generic",
	KindOpaque:      "opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsInteger returns true for the unsigned integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindU256
}

// IsDynamic returns true for kinds encoded as a descriptor plus heap data.
func (k Kind) IsDynamic() bool {
	return k == KindString || k == KindBytes || k == KindVector
}

// primitiveSize returns the encoded width of fixed-size leaf kinds.
func (k Kind) primitiveSize() (int, bool) {
	switch k {
	case KindU8, KindBool:
		return 1, true
	case KindU16:
		return 2, true
	case KindU32:
		return 4, true
	case KindU64:
		return 8, true
	case KindU256, KindB256:
		return 32, true
	case KindString, KindBytes, KindVector:
		return DescriptorSize, true
	case KindUnit:
		return 0, true
	default:
		return 0, false
	}
}

// Field is a named member of a struct, enum, tuple or option.
// Tuple fields are named by position ("0", "1", ...).
type Field struct {
	Name string
	Type *Type
}

// Type is a node of the resolved type graph. Types are built once by the
// resolver and are read-only afterwards.
type Type struct {
	id            int
	kind          Kind
	swayType      string
	name          string
	length        int
	elem          *Type
	fields        []Field
	typeArguments []*Type
	parameters    []*Type
	concrete      bool
	size          int
	key           string
}

// ID returns the declaration id the type was resolved from.
func (t *Type) ID() int {
	return t.id
}

// Kind returns the type's classification.
func (t *Type) Kind() Kind {
	return t.kind
}

// SwayType returns the declared type string, e.g. "struct MyStruct".
func (t *Type) SwayType() string {
	return t.swayType
}

// Name returns the short name of a struct or enum ("Vec" for
// "struct std::vec::Vec"), the parameter name of a generic, and the
// declared type string otherwise.
func (t *Type) Name() string {
	return t.name
}

// Length returns the element count of an array or the byte length of a
// fixed string.
func (t *Type) Length() int {
	return t.length
}

// Elem returns the element type of arrays and vectors and the inner type
// of options.
func (t *Type) Elem() *Type {
	return t.elem
}

// Fields returns struct fields, tuple elements or enum variants in
// declaration order.
func (t *Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// Variants returns enum or option variants in discriminant order.
func (t *Type) Variants() []Field {
	if t.kind != KindEnum && t.kind != KindOption {
		return nil
	}
	return append([]Field(nil), t.fields...)
}

// Field returns the field or variant with the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// VariantIndex returns the discriminant of the named variant.
func (t *Type) VariantIndex(name string) (int, bool) {
	if t.kind != KindEnum && t.kind != KindOption {
		return 0, false
	}
	for i, f := range t.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// TypeArguments returns the concrete arguments of a generic instantiation.
func (t *Type) TypeArguments() []*Type {
	return append([]*Type(nil), t.typeArguments...)
}

// Parameters returns the generic placeholders of an uninstantiated template.
func (t *Type) Parameters() []*Type {
	return append([]*Type(nil), t.parameters...)
}

// IsConcrete returns true if no generic placeholder is reachable from the type.
func (t *Type) IsConcrete() bool {
	return t.concrete
}

// IsDynamic returns true if the type is encoded as a descriptor.
func (t *Type) IsDynamic() bool {
	return t.kind.IsDynamic()
}

// EncodedSize returns the inline size of the type in bytes, or -1 if the
// type cannot be encoded.
func (t *Type) EncodedSize() int {
	return t.size
}

// String returns the type string with type arguments, e.g. "struct Wrapper<u8>".
func (t *Type) String() string {
	if len(t.typeArguments) == 0 {
		return t.swayType
	}
	args := make([]string, len(t.typeArguments))
	for i, a := range t.typeArguments {
		args[i] = a.String()
	}
	return t.swayType + "<" + strings.Join(args, ", ") + ">"
}

var (
	fixedStringPattern = regexp.MustCompile(`^str\[(\d+)\]$`)
	arrayPattern       = regexp.MustCompile(`^\[.*;\s*(\d+)\]$`)
	tuplePattern       = regexp.MustCompile(`^\(.*\)$`)
	structPattern      = regexp.MustCompile(`^struct (.+)$`)
	enumPattern        = regexp.MustCompile(`^enum (.+)$`)
	genericPattern     = regexp.MustCompile(`^generic (.+)$`)
)

var builtinKinds = map[string]Kind{
	"u8":                          KindU8,
	"u16":                         KindU16,
	"u32":                         KindU32,
	"u64":                         KindU64,
	"u256":                        KindU256,
	"bool":                        KindBool,
	"b256":                        KindB256,
	"()":                          KindUnit,
	"str":                         KindString,
	"struct String":               KindString,
	"struct std::string::String":  KindString,
	"raw untyped slice":           KindBytes,
	"struct Bytes":                KindBytes,
	"struct std::bytes::Bytes":    KindBytes,
	"struct Vec":                  KindVector,
	"struct std::vec::Vec":        KindVector,
	"enum Option":                 KindOption,
	"enum std::option::Option":    KindOption,
	"raw untyped ptr":             KindOpaque,
	"struct RawVec":               KindOpaque,
	"struct std::vec::RawVec":     KindOpaque,
	"struct RawBytes":             KindOpaque,
	"struct std::bytes::RawBytes": KindOpaque,
}

// classify derives kind, short name and length from a declared type string.
func classify(typeString string) (kind Kind, name string, length int, ok bool) {
	s := strings.TrimSpace(typeString)

	if k, found := builtinKinds[s]; found {
		return k, shortName(s), 0, true
	}
	if m := fixedStringPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		return KindStringFixed, s, n, err == nil
	}
	if m := arrayPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		return KindArray, s, n, err == nil
	}
	if tuplePattern.MatchString(s) {
		return KindTuple, s, 0, true
	}
	if m := genericPattern.FindStringSubmatch(s); m != nil {
		return KindGeneric, m[1], 0, true
	}
	if structPattern.MatchString(s) {
		return KindStruct, shortName(s), 0, true
	}
	if enumPattern.MatchString(s) {
		return KindEnum, shortName(s), 0, true
	}
	return KindInvalid, s, 0, false
}

// shortName strips the "struct "/"enum " keyword and any module path.
func shortName(s string) string {
	for _, prefix := range []string{"struct ", "enum "} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			if i := strings.LastIndex(s, "::"); i >= 0 {
				s = s[i+2:]
			}
			return s
		}
	}
	return s
}
