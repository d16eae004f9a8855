package fuelabi

// Call is an encoded invocation of one function.
// Call is immutable - modifier methods return new instances.
type Call struct {
	codec    *Codec
	function *Function
	args     []any
	data     []byte
}

// newCall encodes args against the function's input types.
func newCall(codec *Codec, fn *Function, args []any) (*Call, error) {
	if len(args) != len(fn.inputs) {
		return nil, &ArgumentError{
			Function: fn.name,
			Index:    min(len(args), len(fn.inputs)),
			Err:      ErrArgumentCount,
		}
	}

	data, idx, err := codec.encodeValues(fn.InputTypes(), args)
	if err != nil {
		return nil, &ArgumentError{
			Function: fn.name,
			Index:    idx,
			Err:      err,
		}
	}

	return &Call{
		codec:    codec,
		function: fn,
		args:     append([]any(nil), args...),
		data:     data,
	}, nil
}

// Function returns the invoked function.
func (c *Call) Function() *Function {
	return c.function
}

// Args returns the arguments the call was built from.
func (c *Call) Args() []any {
	out := make([]any, len(c.args))
	copy(out, c.args)
	return out
}

// Data returns the encoded argument payload: every argument's inline
// encoding in declaration order, followed by the shared heap region.
func (c *Call) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

// Relocate re-encodes the call for placement at offset, which changes the
// pointers written into dynamic argument descriptors.
//
// Returns a new Call encoded at offset.
func (c *Call) Relocate(offset uint64) (*Call, error) {
	cfg := *c.codec.cfg
	cfg.baseOffset = offset
	return newCall(&Codec{cfg: &cfg}, c.function, c.args)
}

// DecodeOutput decodes a return value of the invoked function.
func (c *Call) DecodeOutput(data []byte) (any, error) {
	v, _, err := c.codec.Decode(c.function.output, data)
	return v, err
}
