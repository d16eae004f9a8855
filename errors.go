package fuelabi

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure classes and a few specific conditions.
var (
	// ErrInvalidDescription indicates a malformed or inconsistent interface description.
	ErrInvalidDescription = errors.New("fuelabi: invalid interface description")

	// ErrEncode indicates a value does not conform to its declared type.
	ErrEncode = errors.New("fuelabi: encode failed")

	// ErrDecode indicates a byte buffer could not be decoded as the declared type.
	ErrDecode = errors.New("fuelabi: decode failed")

	// ErrNotEncodable indicates a placeholder type was reached where a value is required.
	ErrNotEncodable = errors.New("fuelabi: type is never materialized as a value")

	// ErrDynamicConfigurable indicates a configurable of dynamic size was patched.
	ErrDynamicConfigurable = errors.New("fuelabi: configurable has a dynamic type")

	// ErrConfigurableOutOfRange indicates a configurable offset beyond the end of the bytecode.
	ErrConfigurableOutOfRange = errors.New("fuelabi: configurable lies outside the bytecode")

	// ErrArgumentCount indicates a call supplied the wrong number of arguments.
	ErrArgumentCount = errors.New("fuelabi: wrong number of arguments")
)

// UnknownTypeReferenceError indicates a reference to a type id that is not declared.
type UnknownTypeReferenceError struct {
	TypeID   int
	Referrer string
}

func (e *UnknownTypeReferenceError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("fuelabi: unknown type id %d referenced by %s", e.TypeID, e.Referrer)
	}
	return fmt.Sprintf("fuelabi: unknown type id %d", e.TypeID)
}

func (e *UnknownTypeReferenceError) Unwrap() error {
	return ErrInvalidDescription
}

// UnresolvedGenericError indicates a generic placeholder survived substitution.
type UnresolvedGenericError struct {
	Name     string
	TypeID   int
	Referrer string
}

func (e *UnresolvedGenericError) Error() string {
	return fmt.Sprintf("fuelabi: unresolved generic parameter %q (type id %d) in %s", e.Name, e.TypeID, e.Referrer)
}

func (e *UnresolvedGenericError) Unwrap() error {
	return ErrInvalidDescription
}

// GenericArityError indicates a type application supplied the wrong number of type arguments.
type GenericArityError struct {
	Type     string
	Expected int
	Got      int
}

func (e *GenericArityError) Error() string {
	return fmt.Sprintf("fuelabi: %s expects %d type arguments, got %d", e.Type, e.Expected, e.Got)
}

func (e *GenericArityError) Unwrap() error {
	return ErrInvalidDescription
}

// MalformedTypeError indicates a type declaration that cannot be interpreted.
type MalformedTypeError struct {
	TypeID int
	Type   string
	Reason string
}

func (e *MalformedTypeError) Error() string {
	return fmt.Sprintf("fuelabi: malformed type %d (%s): %s", e.TypeID, e.Type, e.Reason)
}

func (e *MalformedTypeError) Unwrap() error {
	return ErrInvalidDescription
}

// DuplicateTypeError indicates two declarations share one type id.
type DuplicateTypeError struct {
	TypeID int
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("fuelabi: type id %d declared more than once", e.TypeID)
}

func (e *DuplicateTypeError) Unwrap() error {
	return ErrInvalidDescription
}

// NotEncodableError indicates the codec reached a generic or opaque type.
type NotEncodableError struct {
	Path string
	Type string
}

func (e *NotEncodableError) Error() string {
	return fmt.Sprintf("fuelabi: %s at %s cannot be encoded or decoded", e.Type, pathOrRoot(e.Path))
}

func (e *NotEncodableError) Unwrap() error {
	return ErrNotEncodable
}

// EncodeTypeMismatchError indicates a value's shape does not match its type.
type EncodeTypeMismatchError struct {
	Path   string
	Type   string
	Value  any
	Reason string
}

func (e *EncodeTypeMismatchError) Error() string {
	return fmt.Sprintf("fuelabi: cannot encode %T as %s at %s: %s", e.Value, e.Type, pathOrRoot(e.Path), e.Reason)
}

func (e *EncodeTypeMismatchError) Unwrap() error {
	return ErrEncode
}

// DecodeBufferUnderrunError indicates fewer bytes remain than the type requires.
type DecodeBufferUnderrunError struct {
	Path   string
	Type   string
	Offset int
	Need   int
	Have   int
}

func (e *DecodeBufferUnderrunError) Error() string {
	return fmt.Sprintf("fuelabi: buffer underrun decoding %s at %s: offset %d needs %d bytes, %d available",
		e.Type, pathOrRoot(e.Path), e.Offset, e.Need, e.Have)
}

func (e *DecodeBufferUnderrunError) Unwrap() error {
	return ErrDecode
}

// DecodeInvalidDiscriminantError indicates an enum tag with no matching variant.
type DecodeInvalidDiscriminantError struct {
	Path         string
	Type         string
	Offset       int
	Discriminant uint64
}

func (e *DecodeInvalidDiscriminantError) Error() string {
	return fmt.Sprintf("fuelabi: invalid discriminant %d for %s at %s (offset %d)",
		e.Discriminant, e.Type, pathOrRoot(e.Path), e.Offset)
}

func (e *DecodeInvalidDiscriminantError) Unwrap() error {
	return ErrDecode
}

// DecodeInvalidDataError indicates bytes that are present but not a valid encoding.
type DecodeInvalidDataError struct {
	Path   string
	Type   string
	Offset int
	Reason string
}

func (e *DecodeInvalidDataError) Error() string {
	return fmt.Sprintf("fuelabi: invalid %s data at %s (offset %d): %s", e.Type, pathOrRoot(e.Path), e.Offset, e.Reason)
}

func (e *DecodeInvalidDataError) Unwrap() error {
	return ErrDecode
}

// FunctionNotFoundError indicates the program doesn't declare the requested function.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("fuelabi: function %q not found", e.Name)
}

// ArgumentError indicates an issue with a function argument.
type ArgumentError struct {
	Function string
	Index    int
	Err      error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("fuelabi: argument %d for function %q: %v", e.Index, e.Function, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// LogTypeNotFoundError indicates a log or message id with no declared type.
type LogTypeNotFoundError struct {
	LogID uint64
}

func (e *LogTypeNotFoundError) Error() string {
	return fmt.Sprintf("fuelabi: no logged type declared for log id %d", e.LogID)
}

// TypeNotFoundError indicates a decode request for a type id the graph doesn't expose.
type TypeNotFoundError struct {
	TypeID int
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("fuelabi: type id %d not found", e.TypeID)
}

// UnknownContractError indicates a receipt from a contract with no registered program.
type UnknownContractError struct {
	ContractID string
}

func (e *UnknownContractError) Error() string {
	return fmt.Sprintf("fuelabi: no program registered for contract %s", e.ContractID)
}

// ReceiptError wraps a failure to decode one receipt of a batch.
type ReceiptError struct {
	Index int
	Err   error
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("fuelabi: receipt %d: %v", e.Index, e.Err)
}

func (e *ReceiptError) Unwrap() error {
	return e.Err
}

// ConfigurableNotFoundError indicates the program doesn't declare the named configurable.
type ConfigurableNotFoundError struct {
	Name string
}

func (e *ConfigurableNotFoundError) Error() string {
	return fmt.Sprintf("fuelabi: configurable %q not found", e.Name)
}

// ConfigurableError wraps a failure to read or patch one configurable.
type ConfigurableError struct {
	Name   string
	Offset uint64
	Err    error
}

func (e *ConfigurableError) Error() string {
	return fmt.Sprintf("fuelabi: configurable %q at offset %d: %v", e.Name, e.Offset, e.Err)
}

func (e *ConfigurableError) Unwrap() error {
	return e.Err
}

func pathOrRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
