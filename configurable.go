package fuelabi

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Configurable is a named constant embedded in a program's data section.
type Configurable struct {
	name        string
	typ         *Type
	offset      uint64
	declaration ConfigurableDeclaration
}

// Name returns the configurable's name.
func (c *Configurable) Name() string {
	return c.name
}

// Type returns the configurable's resolved type.
func (c *Configurable) Type() *Type {
	return c.typ
}

// Offset returns the byte offset of the value within the bytecode.
func (c *Configurable) Offset() uint64 {
	return c.offset
}

// Declaration returns the raw declaration the configurable came from.
func (c *Configurable) Declaration() ConfigurableDeclaration {
	return c.declaration
}

// Configurables returns the configurables in declaration order.
func (p *Program) Configurables() []*Configurable {
	out := make([]*Configurable, len(p.configurables))
	copy(out, p.configurables)
	return out
}

// Configurable returns the named configurable.
func (p *Program) Configurable(name string) (*Configurable, error) {
	i, ok := p.configIndex[name]
	if !ok {
		return nil, &ConfigurableNotFoundError{Name: name}
	}
	return p.configurables[i], nil
}

// SetConfigurables returns a copy of bytecode with the named configurables
// overwritten by values. The input slice is not modified. Either every
// value is applied or an error is returned.
func (p *Program) SetConfigurables(bytecode []byte, values map[string]any) ([]byte, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]byte, len(bytecode))
	copy(out, bytecode)

	for _, name := range names {
		c, err := p.Configurable(name)
		if err != nil {
			return nil, err
		}
		if err := c.checkStatic(); err != nil {
			return nil, err
		}

		data, err := p.codec.Encode(c.typ, values[name])
		if err != nil {
			return nil, &ConfigurableError{Name: name, Offset: c.offset, Err: err}
		}
		if c.offset > uint64(len(out)) || uint64(len(out))-c.offset < uint64(len(data)) {
			return nil, &ConfigurableError{
				Name:   name,
				Offset: c.offset,
				Err:    fmt.Errorf("%w: %d bytes at offset %d, bytecode is %d bytes", ErrConfigurableOutOfRange, len(data), c.offset, len(out)),
			}
		}
		copy(out[c.offset:], data)

		Logger().Debug("patched configurable",
			zap.String("name", name),
			zap.String("type", c.typ.String()),
			zap.Uint64("offset", c.offset),
			zap.Int("size", len(data)),
		)
	}

	return out, nil
}

// ReadConfigurable decodes the current value of the named configurable
// from bytecode.
func (p *Program) ReadConfigurable(bytecode []byte, name string) (any, error) {
	c, err := p.Configurable(name)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatic(); err != nil {
		return nil, err
	}
	if c.offset > uint64(len(bytecode)) {
		return nil, &ConfigurableError{
			Name:   name,
			Offset: c.offset,
			Err:    fmt.Errorf("%w: bytecode is %d bytes", ErrConfigurableOutOfRange, len(bytecode)),
		}
	}
	v, _, err := p.codec.DecodeAt(c.typ, bytecode, int(c.offset))
	if err != nil {
		return nil, &ConfigurableError{Name: name, Offset: c.offset, Err: err}
	}
	return v, nil
}

// checkStatic rejects configurables whose encoding contains a descriptor.
// Descriptor pointers cannot refer into a data section.
func (c *Configurable) checkStatic() error {
	if containsDynamic(c.typ) {
		return &ConfigurableError{Name: c.name, Offset: c.offset, Err: ErrDynamicConfigurable}
	}
	return nil
}

// containsDynamic reports whether t or any inline component is dynamic.
// Recursion stops at dynamic types, so cycles through vectors terminate.
func containsDynamic(t *Type) bool {
	if t.IsDynamic() {
		return true
	}
	if t.kind == KindArray && containsDynamic(t.elem) {
		return true
	}
	for _, f := range t.fields {
		if containsDynamic(f.Type) {
			return true
		}
	}
	return false
}
