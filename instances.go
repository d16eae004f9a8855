package fuelabi

import (
	"strconv"
	"strings"
)

// instanceTable owns every node created during one resolution: declaration
// roots and generic instantiations. Instantiations are deduplicated by key
// so identical applications share a node and different ones never alias.
type instanceTable struct {
	byKey map[string]*Type // Instance key -> node
	order []*Type          // Creation order, for the finalize pass
}

// newInstanceTable creates an empty table.
func newInstanceTable() *instanceTable {
	return &instanceTable{
		byKey: make(map[string]*Type),
		order: make([]*Type, 0, 64),
	}
}

// instanceKey identifies a declaration applied to concrete arguments,
// e.g. "#3<#1,#7<#1>>".
func instanceKey(typeID int, args []*Type) string {
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(typeID))
	if len(args) == 0 {
		return b.String()
	}
	b.WriteByte('<')
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.key)
	}
	b.WriteByte('>')
	return b.String()
}

// lookup returns a previously registered node.
func (it *instanceTable) lookup(key string) (*Type, bool) {
	t, ok := it.byKey[key]
	return t, ok
}

// register records a node before its components are filled, which lets
// self-referencing types (through vectors) find themselves.
func (it *instanceTable) register(t *Type) {
	it.byKey[t.key] = t
	it.order = append(it.order, t)
}

// len returns the number of nodes created.
func (it *instanceTable) len() int {
	return len(it.order)
}

// children returns every node a type refers to directly.
func children(t *Type) []*Type {
	out := make([]*Type, 0, len(t.typeArguments)+len(t.fields)+1)
	out = append(out, t.typeArguments...)
	if t.elem != nil {
		out = append(out, t.elem)
	}
	for _, f := range t.fields {
		out = append(out, f.Type)
	}
	return out
}

// markConcrete flags every node from which no generic placeholder is
// reachable. It iterates to a fixpoint so cycles don't need special care.
func (it *instanceTable) markConcrete() {
	for _, t := range it.order {
		t.concrete = t.kind != KindGeneric
	}
	for changed := true; changed; {
		changed = false
		for _, t := range it.order {
			if !t.concrete {
				continue
			}
			for _, c := range children(t) {
				if !c.concrete {
					t.concrete = false
					changed = true
					break
				}
			}
		}
	}
}
