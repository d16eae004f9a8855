package fuelabi

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Resolver turns raw type declarations into a resolved type graph.
// A Resolver holds only configuration and is safe for concurrent use.
type Resolver struct {
	cfg *resolverConfig
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	cfg := defaultResolverConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Resolver{cfg: cfg}
}

// ResolveTypes resolves a declaration list with the default options.
func ResolveTypes(decls []TypeDeclaration, opts ...ResolverOption) (*TypeGraph, error) {
	return NewResolver(opts...).ResolveTypes(decls)
}

// ResolveTypes resolves a declaration list into a type graph.
// Any failure is fatal: no partial graph is returned.
func (r *Resolver) ResolveTypes(decls []TypeDeclaration) (*TypeGraph, error) {
	res, err := r.build(decls)
	if err != nil {
		return nil, err
	}
	if err := res.finalize(); err != nil {
		return nil, err
	}
	return res.graph(), nil
}

// Resolve resolves a whole interface description: types, functions,
// logged types, message types and configurables.
func (r *Resolver) Resolve(doc *Document) (*Program, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	res, err := r.build(doc.Types)
	if err != nil {
		return nil, err
	}

	prog := &Program{
		functionIndex: make(map[string]int, len(doc.Functions)),
		logs:          make(map[LogID]*Type, len(doc.LoggedTypes)),
		messages:      make(map[LogID]*Type, len(doc.MessagesTypes)),
		configIndex:   make(map[string]int, len(doc.Configurables)),
		codec:         defaultCodec,
		encoding:      doc.Encoding,
	}

	for _, decl := range doc.Functions {
		fn, err := res.function(decl)
		if err != nil {
			return nil, err
		}
		prog.functionIndex[fn.name] = len(prog.functions)
		prog.functions = append(prog.functions, fn)
	}

	for _, lt := range doc.LoggedTypes {
		t, err := res.apply(lt.LoggedType, nil, fmt.Sprintf("log id %d", lt.LogID))
		if err != nil {
			return nil, err
		}
		prog.logs[lt.LogID] = t
	}

	for _, mt := range doc.MessagesTypes {
		t, err := res.apply(mt.MessageDataType, nil, fmt.Sprintf("message id %d", mt.MessageID))
		if err != nil {
			return nil, err
		}
		prog.messages[mt.MessageID] = t
	}

	for _, decl := range doc.Configurables {
		t, err := res.apply(decl.ConfigurableType, nil, fmt.Sprintf("configurable %q", decl.Name))
		if err != nil {
			return nil, err
		}
		prog.configIndex[decl.Name] = len(prog.configurables)
		prog.configurables = append(prog.configurables, &Configurable{
			name:        decl.Name,
			typ:         t,
			offset:      decl.Offset,
			declaration: decl,
		})
	}

	if err := res.finalize(); err != nil {
		return nil, err
	}
	prog.graph = res.graph()

	Logger().Debug("resolved interface description",
		zap.Int("declarations", len(doc.Types)),
		zap.Int("visible", prog.graph.Len()),
		zap.Int("nodes", res.instances.len()),
		zap.Int("functions", len(prog.functions)),
		zap.Int("loggedTypes", len(prog.logs)),
		zap.Int("configurables", len(prog.configurables)),
	)

	return prog, nil
}

// resolution is the working state of one resolve call.
type resolution struct {
	cfg       *resolverConfig
	decls     map[int]*TypeDeclaration
	order     []int
	roots     map[int]*Type
	visible   map[int]bool
	instances *instanceTable
}

// build runs the root pass and the component pass.
func (r *Resolver) build(decls []TypeDeclaration) (*resolution, error) {
	res := &resolution{
		cfg:       r.cfg,
		decls:     make(map[int]*TypeDeclaration, len(decls)),
		order:     make([]int, 0, len(decls)),
		roots:     make(map[int]*Type, len(decls)),
		visible:   make(map[int]bool, len(decls)),
		instances: newInstanceTable(),
	}

	// Phase 1: a shell per declaration, so every id is referenceable
	// before any cross-reference is followed.
	for i := range decls {
		decl := &decls[i]
		if _, exists := res.decls[decl.TypeID]; exists {
			return nil, &DuplicateTypeError{TypeID: decl.TypeID}
		}

		kind, name, length, ok := classify(decl.Type)
		if !ok {
			return nil, &MalformedTypeError{TypeID: decl.TypeID, Type: decl.Type, Reason: "unrecognized type string"}
		}

		skipped := r.cfg.skip(decl.Type)
		if skipped && kind != KindUnit && kind != KindGeneric {
			kind = KindOpaque
		}

		root := &Type{
			id:       decl.TypeID,
			kind:     kind,
			swayType: decl.Type,
			name:     name,
			length:   length,
			size:     -1,
			key:      instanceKey(decl.TypeID, nil),
		}
		res.decls[decl.TypeID] = decl
		res.order = append(res.order, decl.TypeID)
		res.roots[decl.TypeID] = root
		res.visible[decl.TypeID] = !skipped
		res.instances.register(root)
	}

	// Phase 2: components, in declaration order.
	for _, id := range res.order {
		if err := res.complete(res.roots[id]); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// complete fills a root node. Generic templates bind each of their type
// parameters to its own placeholder node.
func (res *resolution) complete(root *Type) error {
	decl := res.decls[root.id]

	var env map[int]*Type
	if len(decl.TypeParameters) > 0 {
		env = make(map[int]*Type, len(decl.TypeParameters))
		root.parameters = make([]*Type, 0, len(decl.TypeParameters))
		for _, p := range decl.TypeParameters {
			param, ok := res.roots[p]
			if !ok {
				return &UnknownTypeReferenceError{TypeID: p, Referrer: describeDecl(decl)}
			}
			if param.kind != KindGeneric {
				return &MalformedTypeError{
					TypeID: decl.TypeID,
					Type:   decl.Type,
					Reason: fmt.Sprintf("type parameter %d is %s, not a generic placeholder", p, param.swayType),
				}
			}
			env[p] = param
			root.parameters = append(root.parameters, param)
		}
	}

	return res.fill(root, decl, env)
}

// fill resolves a node's element, fields or variants within env.
func (res *resolution) fill(t *Type, decl *TypeDeclaration, env map[int]*Type) error {
	referrer := describeDecl(decl)

	switch t.kind {
	case KindVector:
		switch {
		case len(t.typeArguments) > 0:
			t.elem = t.typeArguments[0]
		case len(t.parameters) > 0:
			t.elem = t.parameters[0]
		default:
			return &MalformedTypeError{TypeID: decl.TypeID, Type: decl.Type, Reason: "vector declares no element type parameter"}
		}

	case KindArray:
		if len(decl.Components) != 1 {
			return &MalformedTypeError{
				TypeID: decl.TypeID,
				Type:   decl.Type,
				Reason: fmt.Sprintf("array must declare one element component, has %d", len(decl.Components)),
			}
		}
		elem, err := res.apply(decl.Components[0], env, referrer)
		if err != nil {
			return err
		}
		t.elem = elem

	case KindTuple:
		t.fields = make([]Field, len(decl.Components))
		for i, comp := range decl.Components {
			ft, err := res.apply(comp, env, referrer)
			if err != nil {
				return err
			}
			t.fields[i] = Field{Name: strconv.Itoa(i), Type: ft}
		}

	case KindStruct, KindEnum, KindOption:
		t.fields = make([]Field, len(decl.Components))
		for i, comp := range decl.Components {
			ft, err := res.apply(comp, env, referrer)
			if err != nil {
				return err
			}
			t.fields[i] = Field{Name: comp.Name, Type: ft}
		}
		if t.kind == KindOption {
			some, ok := t.Field("Some")
			if !ok || len(t.fields) != 2 || t.fields[0].Name != "None" {
				return &MalformedTypeError{TypeID: decl.TypeID, Type: decl.Type, Reason: "option must declare variants None and Some"}
			}
			t.elem = some.Type
		}
	}

	return nil
}

// apply resolves a type application within env. A nil env is a concrete
// context, where any generic placeholder is an error.
func (res *resolution) apply(app TypeApplication, env map[int]*Type, referrer string) (*Type, error) {
	decl, ok := res.decls[app.Type]
	if !ok {
		return nil, &UnknownTypeReferenceError{TypeID: app.Type, Referrer: referrer}
	}
	root := res.roots[app.Type]

	if root.kind == KindGeneric {
		if len(app.TypeArguments) > 0 {
			return nil, &GenericArityError{Type: decl.Type, Expected: 0, Got: len(app.TypeArguments)}
		}
		if bound, ok := env[app.Type]; ok {
			return bound, nil
		}
		return nil, &UnresolvedGenericError{Name: root.name, TypeID: app.Type, Referrer: referrer}
	}

	args := make([]*Type, len(app.TypeArguments))
	for i, argApp := range app.TypeArguments {
		arg, err := res.apply(argApp, env, referrer)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	if len(args) != len(decl.TypeParameters) {
		return nil, &GenericArityError{Type: decl.Type, Expected: len(decl.TypeParameters), Got: len(args)}
	}
	if len(args) == 0 {
		return root, nil
	}
	return res.instantiate(decl, root, args)
}

// instantiate produces the node for a template applied to args. The
// template itself is never modified.
func (res *resolution) instantiate(decl *TypeDeclaration, template *Type, args []*Type) (*Type, error) {
	key := instanceKey(decl.TypeID, args)
	if t, ok := res.instances.lookup(key); ok {
		return t, nil
	}

	t := &Type{
		id:            template.id,
		kind:          template.kind,
		swayType:      template.swayType,
		name:          template.name,
		length:        template.length,
		typeArguments: args,
		size:          -1,
		key:           key,
	}
	res.instances.register(t)

	env := make(map[int]*Type, len(args))
	for i, p := range decl.TypeParameters {
		env[p] = args[i]
	}
	if err := res.fill(t, decl, env); err != nil {
		return nil, err
	}
	return t, nil
}

// function resolves a function signature in a concrete context.
func (res *resolution) function(decl FunctionDeclaration) (*Function, error) {
	referrer := fmt.Sprintf("function %q", decl.Name)
	fn := &Function{
		name:        decl.Name,
		inputs:      make([]Argument, len(decl.Inputs)),
		attributes:  decl.Attributes,
		declaration: decl,
	}
	for i, in := range decl.Inputs {
		t, err := res.apply(in, nil, referrer)
		if err != nil {
			return nil, err
		}
		fn.inputs[i] = Argument{Name: in.Name, Type: t}
	}
	out, err := res.apply(decl.Output, nil, referrer)
	if err != nil {
		return nil, err
	}
	fn.output = out
	return fn, nil
}

// finalize computes concreteness and encoded sizes. Nothing is mutated
// after it returns.
func (res *resolution) finalize() error {
	res.instances.markConcrete()

	state := make(map[*Type]uint8, res.instances.len())
	for _, t := range res.instances.order {
		if !t.concrete {
			continue
		}
		if _, err := res.sizeOf(t, state); err != nil {
			return err
		}
	}
	return nil
}

const (
	sizing uint8 = iota + 1
	sized
)

// sizeOf computes the inline size of a concrete type, or -1 when an
// opaque type is embedded inline. A type that needs itself inline has no
// finite size.
func (res *resolution) sizeOf(t *Type, state map[*Type]uint8) (int, error) {
	switch state[t] {
	case sized:
		return t.size, nil
	case sizing:
		return 0, &MalformedTypeError{TypeID: t.id, Type: t.String(), Reason: "recursive type has no finite encoding"}
	}
	state[t] = sizing

	size := -1
	if n, ok := t.kind.primitiveSize(); ok {
		size = n
	} else {
		switch t.kind {
		case KindStringFixed:
			size = t.length
		case KindArray:
			n, err := res.sizeOf(t.elem, state)
			if err != nil {
				return 0, err
			}
			if n >= 0 {
				size = n * t.length
			}
		case KindTuple, KindStruct:
			total := 0
			for _, f := range t.fields {
				n, err := res.sizeOf(f.Type, state)
				if err != nil {
					return 0, err
				}
				if n < 0 {
					total = -1
					break
				}
				total += n
			}
			size = total
		case KindEnum, KindOption:
			widest := 0
			for _, f := range t.fields {
				n, err := res.sizeOf(f.Type, state)
				if err != nil {
					return 0, err
				}
				if n < 0 {
					widest = -1
					break
				}
				if n > widest {
					widest = n
				}
			}
			if widest >= 0 {
				size = DiscriminantSize + widest
			}
		}
	}

	t.size = size
	state[t] = sized
	return size, nil
}

// graph publishes the visible roots in declaration order.
func (res *resolution) graph() *TypeGraph {
	g := &TypeGraph{
		types:     make(map[int]*Type, len(res.order)),
		internal:  make(map[int]*Type, len(res.order)),
		ordered:   make([]*Type, 0, len(res.order)),
		instances: res.instances.byKey,
	}
	for _, id := range res.order {
		t := res.roots[id]
		g.internal[id] = t
		if res.visible[id] {
			g.types[id] = t
			g.ordered = append(g.ordered, t)
		}
	}
	return g
}

func describeDecl(decl *TypeDeclaration) string {
	return fmt.Sprintf("type %d (%s)", decl.TypeID, decl.Type)
}

// TypeGraph maps declaration ids to resolved types. It is immutable and
// safe for concurrent use.
type TypeGraph struct {
	types     map[int]*Type
	internal  map[int]*Type
	ordered   []*Type
	instances map[string]*Type
}

// Lookup returns the visible type declared with id.
func (g *TypeGraph) Lookup(id int) (*Type, bool) {
	t, ok := g.types[id]
	return t, ok
}

// MustLookup is like Lookup but panics if the id is not visible.
func (g *TypeGraph) MustLookup(id int) *Type {
	t, ok := g.types[id]
	if !ok {
		panic(&UnknownTypeReferenceError{TypeID: id})
	}
	return t
}

// Internal returns the node for any declared id, including skip-listed ones.
func (g *TypeGraph) Internal(id int) (*Type, bool) {
	t, ok := g.internal[id]
	return t, ok
}

// Resolve returns the node for a type application. Applications with type
// arguments must match an instantiation made while the graph was built.
func (g *TypeGraph) Resolve(app TypeApplication) (*Type, error) {
	root, ok := g.internal[app.Type]
	if !ok {
		return nil, &TypeNotFoundError{TypeID: app.Type}
	}
	if len(app.TypeArguments) == 0 {
		return root, nil
	}
	args := make([]*Type, len(app.TypeArguments))
	for i, argApp := range app.TypeArguments {
		arg, err := g.Resolve(argApp)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	t, ok := g.instances[instanceKey(app.Type, args)]
	if !ok {
		return nil, &TypeNotFoundError{TypeID: app.Type}
	}
	return t, nil
}

// Types returns the visible types in declaration order.
func (g *TypeGraph) Types() []*Type {
	out := make([]*Type, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// Len returns the number of visible types.
func (g *TypeGraph) Len() int {
	return len(g.ordered)
}

// ForEachType iterates over the visible types in declaration order.
// Return false to stop iteration.
func (g *TypeGraph) ForEachType(fn func(*Type) bool) {
	for _, t := range g.ordered {
		if !fn(t) {
			return
		}
	}
}
