package fuelabi

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Encoding layout:
//
//	inline region   [value 0][value 1]...      fixed size per type
//	heap region     [vector data][nested data]  appended as encountered
//
// A dynamic value occupies one descriptor inline:
//
//	[pointer:8][length:8][capacity:8]
//
// where pointer = base offset + position of the data in the buffer.

// writer accumulates one encoded buffer. Inline slots are reserved up
// front; heap data is appended to the end as dynamic values are found.
type writer struct {
	buf  []byte
	base uint64
}

// reserve appends n zero bytes and returns their offset.
func (w *writer) reserve(n int) int {
	off := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return off
}

// putUint writes v big-endian into size bytes at off.
func (w *writer) putUint(off, size int, v uint64) {
	switch size {
	case 1:
		w.buf[off] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(w.buf[off:], uint16(v))
	case 4:
		binary.BigEndian.PutUint32(w.buf[off:], uint32(v))
	default:
		binary.BigEndian.PutUint64(w.buf[off:], v)
	}
}

// putDescriptor writes a (pointer, length, capacity) triple at off.
func (w *writer) putDescriptor(off int, dataOff int, length int) {
	w.putUint(off, WordSize, w.base+uint64(dataOff))
	w.putUint(off+WordSize, WordSize, uint64(length))
	w.putUint(off+2*WordSize, WordSize, uint64(length))
}

// encode writes v as t into the inline slot at off.
func (w *writer) encode(t *Type, v any, off int, path string) error {
	switch t.kind {
	case KindU8, KindU16, KindU32, KindU64:
		n, err := toUint64(v)
		if err != nil {
			return mismatch(path, t, v, err.Error())
		}
		if n > maxForKind(t.kind) {
			return mismatch(path, t, v, fmt.Sprintf("%d out of range", n))
		}
		w.putUint(off, t.size, n)

	case KindU256:
		n, err := toU256(v)
		if err != nil {
			return mismatch(path, t, v, err.Error())
		}
		b := n.Bytes32()
		copy(w.buf[off:off+32], b[:])

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(path, t, v, "not a bool")
		}
		if b {
			w.buf[off] = 1
		}

	case KindB256:
		h, err := toHash(v)
		if err != nil {
			return mismatch(path, t, v, err.Error())
		}
		copy(w.buf[off:off+32], h[:])

	case KindStringFixed:
		s, ok := v.(string)
		if !ok {
			return mismatch(path, t, v, "not a string")
		}
		if len(s) > t.length {
			return mismatch(path, t, v, fmt.Sprintf("%d bytes exceed declared length %d", len(s), t.length))
		}
		// Zero bytes pad the slot, so a value can't end in one.
		if strings.HasSuffix(s, "\x00") {
			return mismatch(path, t, v, "trailing NUL byte")
		}
		copy(w.buf[off:off+t.length], s)

	case KindString:
		s, ok := v.(string)
		if !ok {
			return mismatch(path, t, v, "not a string")
		}
		data := w.reserve(len(s))
		copy(w.buf[data:], s)
		w.putDescriptor(off, data, len(s))

	case KindBytes:
		b, ok := toBytes(v)
		if !ok {
			return mismatch(path, t, v, "not a byte sequence")
		}
		data := w.reserve(len(b))
		copy(w.buf[data:], b)
		w.putDescriptor(off, data, len(b))

	case KindVector:
		items, ok := toSlice(v)
		if !ok {
			return mismatch(path, t, v, "not a slice")
		}
		elemSize := t.elem.size
		if elemSize < 0 {
			return &NotEncodableError{Path: indexPath(path, 0), Type: t.elem.String()}
		}
		data := w.reserve(len(items) * elemSize)
		w.putDescriptor(off, data, len(items))
		for i, item := range items {
			if err := w.encode(t.elem, item, data+i*elemSize, indexPath(path, i)); err != nil {
				return err
			}
		}

	case KindArray:
		items, ok := toSlice(v)
		if !ok {
			return mismatch(path, t, v, "not a slice or array")
		}
		if len(items) != t.length {
			return mismatch(path, t, v, fmt.Sprintf("expected %d elements, got %d", t.length, len(items)))
		}
		elemSize := t.elem.size
		for i, item := range items {
			if err := w.encode(t.elem, item, off+i*elemSize, indexPath(path, i)); err != nil {
				return err
			}
		}

	case KindTuple:
		items, ok := toSlice(v)
		if !ok {
			return mismatch(path, t, v, "not a slice")
		}
		if len(items) != len(t.fields) {
			return mismatch(path, t, v, fmt.Sprintf("expected %d elements, got %d", len(t.fields), len(items)))
		}
		for i, f := range t.fields {
			if err := w.encode(f.Type, items[i], off, indexPath(path, i)); err != nil {
				return err
			}
			off += f.Type.size
		}

	case KindStruct:
		m, ok := v.(map[string]any)
		if !ok {
			return mismatch(path, t, v, "not a map[string]any")
		}
		if extra := unknownKeys(t, m); len(extra) > 0 {
			return mismatch(path, t, v, "unknown fields "+strings.Join(extra, ", "))
		}
		for _, f := range t.fields {
			fv, present := m[f.Name]
			if !present {
				return mismatch(path, t, v, fmt.Sprintf("missing field %q", f.Name))
			}
			if err := w.encode(f.Type, fv, off, fieldPath(path, f.Name)); err != nil {
				return err
			}
			off += f.Type.size
		}

	case KindEnum:
		e, ok := toEnum(v)
		if !ok {
			return mismatch(path, t, v, "not an Enum")
		}
		idx, ok := t.VariantIndex(e.Variant)
		if !ok {
			return mismatch(path, t, v, fmt.Sprintf("unknown variant %q", e.Variant))
		}
		w.putUint(off, DiscriminantSize, uint64(idx))
		variant := t.fields[idx]
		if err := w.encode(variant.Type, e.Value, off+DiscriminantSize, fieldPath(path, variant.Name)); err != nil {
			return err
		}

	case KindOption:
		o, ok := toOption(v)
		if !ok {
			return mismatch(path, t, v, "not an Option")
		}
		if o.Valid {
			w.putUint(off, DiscriminantSize, 1)
			if err := w.encode(t.elem, o.Value, off+DiscriminantSize, fieldPath(path, "Some")); err != nil {
				return err
			}
		}

	case KindUnit:
		if v != nil {
			return mismatch(path, t, v, "unit takes no value")
		}

	default:
		return &NotEncodableError{Path: path, Type: t.String()}
	}

	return nil
}

func mismatch(path string, t *Type, v any, reason string) error {
	return &EncodeTypeMismatchError{Path: path, Type: t.String(), Value: v, Reason: reason}
}

// unknownKeys returns map keys that are not fields of t, sorted.
func unknownKeys(t *Type, m map[string]any) []string {
	var extra []string
	for k := range m {
		if _, ok := t.Field(k); !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
