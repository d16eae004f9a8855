package fuelabi

// Program is a resolved interface description: its type graph plus the
// functions, logged types, message types and configurables that refer
// into it. A Program is immutable and safe for concurrent use.
type Program struct {
	graph         *TypeGraph
	functionIndex map[string]int
	functions     []*Function
	logs          map[LogID]*Type
	messages      map[LogID]*Type
	configIndex   map[string]int
	configurables []*Configurable
	codec         *Codec
	encoding      string
}

// Argument is a named, resolved function input.
type Argument struct {
	Name string
	Type *Type
}

// Function is a resolved function signature.
type Function struct {
	name        string
	inputs      []Argument
	output      *Type
	attributes  []Attribute
	declaration FunctionDeclaration
}

// Name returns the function name.
func (f *Function) Name() string {
	return f.name
}

// Inputs returns the function's arguments in declaration order.
func (f *Function) Inputs() []Argument {
	return append([]Argument(nil), f.inputs...)
}

// InputTypes returns the argument types in declaration order.
func (f *Function) InputTypes() []*Type {
	types := make([]*Type, len(f.inputs))
	for i, in := range f.inputs {
		types[i] = in.Type
	}
	return types
}

// Output returns the return type.
func (f *Function) Output() *Type {
	return f.output
}

// Attributes returns the function's annotations.
func (f *Function) Attributes() []Attribute {
	out := make([]Attribute, len(f.attributes))
	for i, attr := range f.attributes {
		out[i] = Attribute{Name: attr.Name, Arguments: append([]string(nil), attr.Arguments...)}
	}
	return out
}

// Declaration returns the raw declaration the function was resolved from.
func (f *Function) Declaration() FunctionDeclaration {
	return f.declaration
}

// IsPayable returns true if the function accepts an asset transfer.
func (f *Function) IsPayable() bool {
	_, ok := f.attribute("payable")
	return ok
}

// StorageAccess returns the arguments of the storage attribute, e.g.
// ["read", "write"], or nil if the function doesn't touch storage.
func (f *Function) StorageAccess() []string {
	attr, ok := f.attribute("storage")
	if !ok {
		return nil
	}
	return append([]string(nil), attr.Arguments...)
}

func (f *Function) attribute(name string) (Attribute, bool) {
	for _, attr := range f.attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// ParseProgram parses and resolves a JSON interface description.
func ParseProgram(abiJSON string, opts ...ResolverOption) (*Program, error) {
	doc, err := ParseDocument([]byte(abiJSON))
	if err != nil {
		return nil, err
	}
	return NewResolver(opts...).Resolve(doc)
}

// MustParseProgram is like ParseProgram but panics on error.
func MustParseProgram(abiJSON string, opts ...ResolverOption) *Program {
	prog, err := ParseProgram(abiJSON, opts...)
	if err != nil {
		panic(err)
	}
	return prog
}

// Graph returns the resolved type graph.
func (p *Program) Graph() *TypeGraph {
	return p.graph
}

// Codec returns the codec used for calls, logs and configurables.
func (p *Program) Codec() *Codec {
	return p.codec
}

// Encoding returns the encoding version declared by the description, if any.
func (p *Program) Encoding() string {
	return p.encoding
}

// WithCodec returns a copy of the program that uses codec.
func (p *Program) WithCodec(codec *Codec) *Program {
	clone := *p
	clone.codec = codec
	return &clone
}

// Functions returns the functions in declaration order.
func (p *Program) Functions() []*Function {
	out := make([]*Function, len(p.functions))
	copy(out, p.functions)
	return out
}

// Function returns the named function.
func (p *Program) Function(name string) (*Function, error) {
	i, ok := p.functionIndex[name]
	if !ok {
		return nil, &FunctionNotFoundError{Name: name}
	}
	return p.functions[i], nil
}

// MustFunction is like Function but panics on error.
func (p *Program) MustFunction(name string) *Function {
	fn, err := p.Function(name)
	if err != nil {
		panic(err)
	}
	return fn
}

// HasFunction returns true if the program declares the named function.
func (p *Program) HasFunction(name string) bool {
	_, ok := p.functionIndex[name]
	return ok
}

// FunctionNames returns all function names in declaration order.
func (p *Program) FunctionNames() []string {
	names := make([]string, len(p.functions))
	for i, fn := range p.functions {
		names[i] = fn.name
	}
	return names
}

// Invoke creates a Call for the named function with the given arguments.
func (p *Program) Invoke(name string, args ...any) (*Call, error) {
	fn, err := p.Function(name)
	if err != nil {
		return nil, err
	}
	return newCall(p.codec, fn, args)
}

// MustInvoke is like Invoke but panics on error.
func (p *Program) MustInvoke(name string, args ...any) *Call {
	call, err := p.Invoke(name, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// LogType returns the type logged under id.
func (p *Program) LogType(id LogID) (*Type, bool) {
	t, ok := p.logs[id]
	return t, ok
}

// MessageType returns the data type of message id.
func (p *Program) MessageType(id LogID) (*Type, bool) {
	t, ok := p.messages[id]
	return t, ok
}
