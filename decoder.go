package fuelabi

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// reader decodes from one buffer. Descriptor pointers are resolved
// against base; end tracks the furthest byte touched so far.
type reader struct {
	buf    []byte
	base   uint64
	maxLen int
	end    int
}

// need checks that n bytes are available at off and records them as consumed.
func (r *reader) need(t *Type, path string, off, n int) error {
	if off < 0 || n < 0 || off > len(r.buf) || len(r.buf)-off < n {
		have := len(r.buf) - off
		if have < 0 {
			have = 0
		}
		return &DecodeBufferUnderrunError{Path: path, Type: t.String(), Offset: off, Need: n, Have: have}
	}
	if off+n > r.end {
		r.end = off + n
	}
	return nil
}

// readUint reads a big-endian unsigned integer of size bytes at off.
func (r *reader) readUint(off, size int) uint64 {
	switch size {
	case 1:
		return uint64(r.buf[off])
	case 2:
		return uint64(binary.BigEndian.Uint16(r.buf[off:]))
	case 4:
		return uint64(binary.BigEndian.Uint32(r.buf[off:]))
	default:
		return binary.BigEndian.Uint64(r.buf[off:])
	}
}

// descriptor reads a (pointer, length, capacity) triple at off and returns
// the buffer position and byte span of the referenced data.
func (r *reader) descriptor(t *Type, path string, off, elemSize int) (int, int, error) {
	if err := r.need(t, path, off, DescriptorSize); err != nil {
		return 0, 0, err
	}
	ptr := r.readUint(off, WordSize)
	length := r.readUint(off+WordSize, WordSize)
	capacity := r.readUint(off+2*WordSize, WordSize)

	if capacity < length {
		return 0, 0, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: off,
			Reason: fmt.Sprintf("capacity %d below length %d", capacity, length)}
	}
	if length > uint64(r.maxLen) {
		return 0, 0, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: off,
			Reason: fmt.Sprintf("length %d exceeds limit %d", length, r.maxLen)}
	}
	if ptr < r.base || ptr-r.base > uint64(len(r.buf)) {
		return 0, 0, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: off,
			Reason: fmt.Sprintf("pointer 0x%x outside buffer", ptr)}
	}

	pos := int(ptr - r.base)
	span := int(length) * elemSize
	if err := r.need(t, path, pos, span); err != nil {
		return 0, 0, err
	}
	return pos, int(length), nil
}

// decode reads a value of type t from the inline slot at off.
func (r *reader) decode(t *Type, off int, path string) (any, error) {
	if t.size < 0 {
		return nil, &NotEncodableError{Path: path, Type: t.String()}
	}
	if err := r.need(t, path, off, t.size); err != nil {
		return nil, err
	}

	switch t.kind {
	case KindU8:
		return uint8(r.readUint(off, 1)), nil
	case KindU16:
		return uint16(r.readUint(off, 2)), nil
	case KindU32:
		return uint32(r.readUint(off, 4)), nil
	case KindU64:
		return r.readUint(off, 8), nil

	case KindU256:
		return new(uint256.Int).SetBytes32(r.buf[off : off+32]), nil

	case KindBool:
		switch r.buf[off] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: off,
				Reason: fmt.Sprintf("bool byte 0x%02x", r.buf[off])}
		}

	case KindB256:
		return common.BytesToHash(r.buf[off : off+32]), nil

	case KindStringFixed:
		raw := r.buf[off : off+t.length]
		if !utf8.Valid(raw) {
			return nil, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: off, Reason: "invalid UTF-8"}
		}
		return strings.TrimRight(string(raw), "\x00"), nil

	case KindString:
		pos, n, err := r.descriptor(t, path, off, 1)
		if err != nil {
			return nil, err
		}
		raw := r.buf[pos : pos+n]
		if !utf8.Valid(raw) {
			return nil, &DecodeInvalidDataError{Path: path, Type: t.String(), Offset: pos, Reason: "invalid UTF-8"}
		}
		return string(raw), nil

	case KindBytes:
		pos, n, err := r.descriptor(t, path, off, 1)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		copy(out, r.buf[pos:pos+n])
		return out, nil

	case KindVector:
		elemSize := t.elem.size
		if elemSize < 0 {
			return nil, &NotEncodableError{Path: indexPath(path, 0), Type: t.elem.String()}
		}
		pos, n, err := r.descriptor(t, path, off, elemSize)
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := range out {
			v, err := r.decode(t.elem, pos+i*elemSize, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case KindArray:
		out := make([]any, t.length)
		for i := range out {
			v, err := r.decode(t.elem, off+i*t.elem.size, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case KindTuple:
		out := make([]any, len(t.fields))
		for i, f := range t.fields {
			v, err := r.decode(f.Type, off, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
			off += f.Type.size
		}
		return out, nil

	case KindStruct:
		out := make(map[string]any, len(t.fields))
		for _, f := range t.fields {
			v, err := r.decode(f.Type, off, fieldPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
			off += f.Type.size
		}
		return out, nil

	case KindEnum, KindOption:
		disc := r.readUint(off, DiscriminantSize)
		if disc >= uint64(len(t.fields)) {
			return nil, &DecodeInvalidDiscriminantError{Path: path, Type: t.String(), Offset: off, Discriminant: disc}
		}
		variant := t.fields[disc]
		v, err := r.decode(variant.Type, off+DiscriminantSize, fieldPath(path, variant.Name))
		if err != nil {
			return nil, err
		}
		if t.kind == KindOption {
			if disc == 0 {
				return None(), nil
			}
			return Some(v), nil
		}
		return Enum{Variant: variant.Name, Value: v}, nil

	case KindUnit:
		return nil, nil

	default:
		return nil, &NotEncodableError{Path: path, Type: t.String()}
	}
}
