package fuelabi

import "fmt"

// Codec encodes values into the VM wire format and decodes them back.
// A Codec holds only configuration and is safe for concurrent use.
type Codec struct {
	cfg *codecConfig
}

// NewCodec creates a Codec with the given options.
func NewCodec(opts ...CodecOption) *Codec {
	cfg := defaultCodecConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Codec{cfg: cfg}
}

var defaultCodec = NewCodec()

// Encode encodes with the package-level default codec.
func Encode(t *Type, v any) ([]byte, error) {
	return defaultCodec.Encode(t, v)
}

// Decode decodes with the package-level default codec.
func Decode(t *Type, data []byte) (any, int, error) {
	return defaultCodec.Decode(t, data)
}

// BaseOffset returns the address descriptor pointers are relative to.
func (c *Codec) BaseOffset() uint64 {
	return c.cfg.baseOffset
}

// Encode encodes v as t. The result is the inline encoding followed by
// the heap region holding the contents of any dynamic values.
func (c *Codec) Encode(t *Type, v any) ([]byte, error) {
	if err := checkEncodable(t, ""); err != nil {
		return nil, err
	}
	w := &writer{base: c.cfg.baseOffset}
	off := w.reserve(t.size)
	if err := w.encode(t, v, off, ""); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// EncodeValues encodes a sequence of values as one buffer: their inline
// encodings concatenated in order, followed by one shared heap region.
func (c *Codec) EncodeValues(types []*Type, values []any) ([]byte, error) {
	buf, _, err := c.encodeValues(types, values)
	return buf, err
}

// encodeValues is EncodeValues that also reports the index of the value
// that failed, or -1.
func (c *Codec) encodeValues(types []*Type, values []any) ([]byte, int, error) {
	if len(types) != len(values) {
		return nil, min(len(types), len(values)), &EncodeTypeMismatchError{
			Path:   "",
			Type:   "argument list",
			Value:  values,
			Reason: fmt.Sprintf("expected %d values, got %d", len(types), len(values)),
		}
	}

	inline := 0
	for i, t := range types {
		if err := checkEncodable(t, indexPath("", i)); err != nil {
			return nil, i, err
		}
		inline += t.size
	}

	w := &writer{base: c.cfg.baseOffset}
	off := w.reserve(inline)
	for i, t := range types {
		if err := w.encode(t, values[i], off, indexPath("", i)); err != nil {
			return nil, i, err
		}
		off += t.size
	}
	return w.buf, -1, nil
}

// Decode decodes a value of type t from the start of data. It returns the
// value and the number of bytes consumed, counting any heap data the
// value references.
func (c *Codec) Decode(t *Type, data []byte) (any, int, error) {
	return c.DecodeAt(t, data, 0)
}

// DecodeAt decodes a value whose inline encoding starts at offset.
// Descriptor pointers are resolved against the whole of data. The count
// returned is measured from offset to the furthest byte read.
func (c *Codec) DecodeAt(t *Type, data []byte, offset int) (any, int, error) {
	if err := checkEncodable(t, ""); err != nil {
		return nil, 0, err
	}
	r := c.newReader(data, offset)
	v, err := r.decode(t, offset, "")
	if err != nil {
		return nil, 0, err
	}
	return v, r.end - offset, nil
}

// DecodeValues decodes a sequence of values laid out as EncodeValues
// writes them.
func (c *Codec) DecodeValues(types []*Type, data []byte) ([]any, int, error) {
	out := make([]any, len(types))
	r := c.newReader(data, 0)
	off := 0
	for i, t := range types {
		path := indexPath("", i)
		if err := checkEncodable(t, path); err != nil {
			return nil, 0, err
		}
		v, err := r.decode(t, off, path)
		if err != nil {
			return nil, 0, err
		}
		out[i] = v
		off += t.size
	}
	return out, r.end, nil
}

func (c *Codec) newReader(data []byte, offset int) *reader {
	return &reader{
		buf:    data,
		base:   c.cfg.baseOffset,
		maxLen: c.cfg.maxDynamicLength,
		end:    offset,
	}
}

// checkEncodable rejects types that can never carry a value.
func checkEncodable(t *Type, path string) error {
	if t == nil {
		return &NotEncodableError{Path: path, Type: "<nil>"}
	}
	if !t.concrete || t.size < 0 {
		return &NotEncodableError{Path: path, Type: t.String()}
	}
	return nil
}
