// Package fuelabi provides a Go implementation of the Fuel VM application
// binary interface: it resolves a program's JSON interface description into
// a typed graph and encodes and decodes values in the VM's wire format.
//
// An interface description is a flat list of type declarations that refer
// to each other by numeric id, plus function signatures, logged types and
// configurable constants. This library:
//   - Resolves every declaration, substituting generic type arguments
//   - Encodes function arguments into call data
//   - Decodes return values, log payloads and embedded configurables
//
// # Basic Usage
//
// Load a description and encode a call:
//
//	prog, err := fuelabi.ParseProgram(abiJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	call, err := prog.Invoke("transfer", recipient, uint64(100))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	payload := call.Data()
//
//	// Decode what the VM returned
//	result, err := call.DecodeOutput(returnData)
//
// Descriptions shared across a process should be loaded through a Cache,
// or the package-level LoadProgram, so each one is resolved only once.
//
// # Type Resolution
//
// Resolution runs in two passes. The first creates a node for every
// declaration; the second fills in fields, variants and element types.
// A generic declaration applied to type arguments is instantiated into a
// new node, and identical instantiations share one node. Types may refer
// to themselves through a vector.
//
// Compiler-internal declarations (generic placeholders, raw pointers,
// RawVec, RawBytes and the unit type) are resolved but hidden from the
// graph's visible types. WithSkipTypes and WithSkipFunc change the list.
//
// Any problem in a description fails the whole load with an error that
// unwraps to ErrInvalidDescription.
//
// # Wire Format
//
// Integers are big-endian at their declared width (u8=1 byte ... u256=32
// bytes); bool is one byte and b256 is 32. Arrays, tuples and structs are
// the concatenation of their members. str[N] is N bytes, zero padded.
//
// Enums and options are an 8-byte discriminant followed by the active
// variant's payload, zero padded to the widest variant. Option uses 0 for
// None and 1 for Some.
//
// Vectors, strings and Bytes are written inline as a 24-byte descriptor:
//
//	[pointer:8][length:8][capacity:8]
//
// and their contents are appended to a heap region after the inline data.
// The pointer is the codec's base offset plus the position of the
// contents in the buffer.
//
// # Values
//
// Decoding produces uint8 through uint64, *uint256.Int, bool,
// common.Hash, string, []byte, []any, map[string]any, Enum, Option and
// nil for the unit type. Encoding accepts these and common conversions
// (any Go integer, *big.Int, hex strings for b256 and u256).
//
// # Logs and Configurables
//
// Programs decode logs by the id the VM attaches to them (DecodeLog) and
// by declared type id (DecodeByTypeID). A ReceiptDecoder routes receipts
// from several contracts to the right program. SetConfigurables patches
// constants in a copy of a program's bytecode.
//
// # References
//
// For more information about the interface format, see:
//   - https://docs.fuel.network/docs/specs/abi/
//   - https://github.com/FuelLabs/fuels-ts (TypeScript SDK)
package fuelabi
