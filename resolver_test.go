package fuelabi

import (
	"errors"
	"os"
	"testing"
)

func loadShowcase(t *testing.T) *Program {
	t.Helper()
	data, err := os.ReadFile("testdata/showcase.json")
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	prog, err := NewResolver().Resolve(doc)
	if err != nil {
		t.Fatalf("Failed to resolve fixture: %v", err)
	}
	return prog
}

func app(id int, args ...TypeApplication) TypeApplication {
	return TypeApplication{Type: id, TypeArguments: args}
}

func named(name string, id int, args ...TypeApplication) TypeApplication {
	return TypeApplication{Name: name, Type: id, TypeArguments: args}
}

func TestResolveShowcase(t *testing.T) {
	prog := loadShowcase(t)
	g := prog.Graph()

	t.Run("skip-listed declarations are hidden", func(t *testing.T) {
		for _, id := range []int{0, 5, 9, 10, 16} {
			if _, ok := g.Lookup(id); ok {
				t.Errorf("Expected type %d to be hidden", id)
			}
			if _, ok := g.Internal(id); !ok {
				t.Errorf("Expected type %d to be internally resolvable", id)
			}
		}
		if g.Len() != 20 {
			t.Errorf("Expected 20 visible types, got %d", g.Len())
		}
	})

	t.Run("visible types keep declaration order", func(t *testing.T) {
		prev := -1
		for _, typ := range g.Types() {
			if typ.ID() <= prev {
				t.Fatalf("Expected increasing ids, got %d after %d", typ.ID(), prev)
			}
			prev = typ.ID()
		}
	})

	t.Run("ForEachType stops early", func(t *testing.T) {
		count := 0
		g.ForEachType(func(*Type) bool {
			count++
			return count < 3
		})
		if count != 3 {
			t.Errorf("Expected 3 iterations, got %d", count)
		}
	})

	t.Run("internal kinds of skipped declarations", func(t *testing.T) {
		tests := []struct {
			id   int
			kind Kind
		}{
			{0, KindUnit},
			{5, KindGeneric},
			{9, KindOpaque},
			{10, KindOpaque},
			{16, KindOpaque},
		}
		for _, tt := range tests {
			typ, _ := g.Internal(tt.id)
			if typ.Kind() != tt.kind {
				t.Errorf("Expected type %d to be %s, got %s", tt.id, tt.kind, typ.Kind())
			}
		}
	})

	t.Run("struct fields", func(t *testing.T) {
		point := g.MustLookup(6)
		if point.Kind() != KindStruct || point.Name() != "Point" {
			t.Fatalf("Expected struct Point, got %s %s", point.Kind(), point.Name())
		}
		fields := point.Fields()
		if len(fields) != 2 || fields[0].Name != "x" || fields[1].Name != "y" {
			t.Fatalf("Expected fields x, y, got %v", fields)
		}
		if fields[0].Type.Kind() != KindU64 {
			t.Errorf("Expected x to be u64, got %s", fields[0].Type.Kind())
		}
		if point.EncodedSize() != 16 {
			t.Errorf("Expected size 16, got %d", point.EncodedSize())
		}
	})

	t.Run("Vec<Option<u64>>", func(t *testing.T) {
		vec := prog.MustFunction("maybe").Inputs()[0].Type
		if vec.Kind() != KindVector {
			t.Fatalf("Expected vector, got %s", vec.Kind())
		}
		opt := vec.Elem()
		if opt.Kind() != KindOption {
			t.Fatalf("Expected option element, got %s", opt.Kind())
		}
		if opt.Elem().Kind() != KindU64 {
			t.Errorf("Expected option of u64, got %s", opt.Elem().Kind())
		}
		if !vec.IsConcrete() || !opt.IsConcrete() {
			t.Error("Expected no generic placeholder to remain")
		}
		if opt.EncodedSize() != 16 {
			t.Errorf("Expected option size 16, got %d", opt.EncodedSize())
		}
		if vec.String() != "struct std::vec::Vec<enum std::option::Option<u64>>" {
			t.Errorf("Unexpected type string %q", vec.String())
		}
	})

	t.Run("distinct instantiations of one template", func(t *testing.T) {
		pair := g.MustLookup(13)
		a, _ := pair.Field("a")
		b, _ := pair.Field("b")
		if a.Type == b.Type {
			t.Fatal("Expected Wrapper<u8> and Wrapper<b256> to be distinct nodes")
		}
		inner, _ := a.Type.Field("inner")
		if inner.Type.Kind() != KindU8 {
			t.Errorf("Expected Wrapper<u8>.inner to be u8, got %s", inner.Type.Kind())
		}
		inner, _ = b.Type.Field("inner")
		if inner.Type.Kind() != KindB256 {
			t.Errorf("Expected Wrapper<b256>.inner to be b256, got %s", inner.Type.Kind())
		}
		if pair.EncodedSize() != 33 {
			t.Errorf("Expected size 33, got %d", pair.EncodedSize())
		}
	})

	t.Run("templates stay generic", func(t *testing.T) {
		wrapper := g.MustLookup(12)
		if wrapper.IsConcrete() {
			t.Error("Expected template to be non-concrete")
		}
		if wrapper.EncodedSize() != -1 {
			t.Errorf("Expected size -1, got %d", wrapper.EncodedSize())
		}
		if len(wrapper.Parameters()) != 1 || wrapper.Parameters()[0].Kind() != KindGeneric {
			t.Errorf("Expected one generic parameter, got %v", wrapper.Parameters())
		}
		inner, _ := wrapper.Field("inner")
		if inner.Type.Kind() != KindGeneric || inner.Type.Name() != "T" {
			t.Errorf("Expected inner to be generic T, got %s %s", inner.Type.Kind(), inner.Type.Name())
		}
	})

	t.Run("identical instantiations are shared", func(t *testing.T) {
		fromFunction := prog.MustFunction("sum").Inputs()[0].Type
		fromLog, ok := prog.LogType(2)
		if !ok {
			t.Fatal("Expected log id 2 to be declared")
		}
		if fromFunction != fromLog {
			t.Error("Expected Vec<u8> to resolve to one node")
		}
		resolved, err := g.Resolve(app(8, app(2)))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if resolved != fromFunction {
			t.Error("Expected Resolve to return the shared node")
		}
	})

	t.Run("Resolve rejects instantiations not in the graph", func(t *testing.T) {
		_, err := g.Resolve(app(8, app(22)))
		var notFound *TypeNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Expected TypeNotFoundError, got %v", err)
		}
	})

	t.Run("self reference through a vector", func(t *testing.T) {
		node := g.MustLookup(20)
		children, _ := node.Field("children")
		if children.Type.Elem() != node {
			t.Error("Expected Vec<Node> element to be Node itself")
		}
		if node.EncodedSize() != 8+DescriptorSize {
			t.Errorf("Expected size %d, got %d", 8+DescriptorSize, node.EncodedSize())
		}
	})

	t.Run("enum sized by widest variant", func(t *testing.T) {
		payload := g.MustLookup(21)
		if payload.EncodedSize() != DiscriminantSize+32 {
			t.Errorf("Expected size %d, got %d", DiscriminantSize+32, payload.EncodedSize())
		}
		idx, ok := payload.VariantIndex("Large")
		if !ok || idx != 2 {
			t.Errorf("Expected Large at index 2, got %d (%v)", idx, ok)
		}
	})

	t.Run("array and tuple", func(t *testing.T) {
		arr := g.MustLookup(18)
		if arr.Kind() != KindArray || arr.Length() != 4 || arr.Elem().Kind() != KindU8 {
			t.Errorf("Expected [u8; 4], got %s len %d", arr.Kind(), arr.Length())
		}
		tuple := g.MustLookup(19)
		if tuple.Kind() != KindTuple || len(tuple.Fields()) != 2 || tuple.Fields()[1].Name != "1" {
			t.Errorf("Expected 2-tuple with positional names, got %v", tuple.Fields())
		}
		if tuple.EncodedSize() != 2 {
			t.Errorf("Expected tuple size 2, got %d", tuple.EncodedSize())
		}
	})

	t.Run("standard library wrappers", func(t *testing.T) {
		if g.MustLookup(14).Kind() != KindString {
			t.Errorf("Expected String to be a dynamic string, got %s", g.MustLookup(14).Kind())
		}
		if g.MustLookup(15).Kind() != KindBytes {
			t.Errorf("Expected Bytes to be dynamic bytes, got %s", g.MustLookup(15).Kind())
		}
	})
}

func TestResolveTypesErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []TypeDeclaration
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown component reference",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "struct A", Components: []TypeApplication{named("x", 7)}},
				{TypeID: 1, Type: "u64"},
			},
			check: func(t *testing.T, err error) {
				var unknown *UnknownTypeReferenceError
				if !errors.As(err, &unknown) {
					t.Fatalf("Expected UnknownTypeReferenceError, got %v", err)
				}
				if unknown.TypeID != 7 {
					t.Errorf("Expected missing id 7, got %d", unknown.TypeID)
				}
			},
		},
		{
			name: "duplicate id",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "u64"},
				{TypeID: 0, Type: "u8"},
			},
			check: func(t *testing.T, err error) {
				var dup *DuplicateTypeError
				if !errors.As(err, &dup) {
					t.Fatalf("Expected DuplicateTypeError, got %v", err)
				}
			},
		},
		{
			name: "unrecognized type string",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "float64"},
			},
			check: func(t *testing.T, err error) {
				var malformed *MalformedTypeError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedTypeError, got %v", err)
				}
			},
		},
		{
			name: "missing type arguments",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "generic T"},
				{TypeID: 1, Type: "struct Wrapper", Components: []TypeApplication{named("inner", 0)}, TypeParameters: []int{0}},
				{TypeID: 2, Type: "struct Outer", Components: []TypeApplication{named("w", 1)}},
			},
			check: func(t *testing.T, err error) {
				var arity *GenericArityError
				if !errors.As(err, &arity) {
					t.Fatalf("Expected GenericArityError, got %v", err)
				}
				if arity.Expected != 1 || arity.Got != 0 {
					t.Errorf("Expected 1/0, got %d/%d", arity.Expected, arity.Got)
				}
			},
		},
		{
			name: "type arguments on a placeholder",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "generic T"},
				{TypeID: 1, Type: "u8"},
				{TypeID: 2, Type: "struct Wrapper", Components: []TypeApplication{named("inner", 0, app(1))}, TypeParameters: []int{0}},
			},
			check: func(t *testing.T, err error) {
				var arity *GenericArityError
				if !errors.As(err, &arity) {
					t.Fatalf("Expected GenericArityError, got %v", err)
				}
			},
		},
		{
			name: "placeholder outside a template",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "generic T"},
				{TypeID: 1, Type: "struct Loose", Components: []TypeApplication{named("x", 0)}},
			},
			check: func(t *testing.T, err error) {
				var unresolved *UnresolvedGenericError
				if !errors.As(err, &unresolved) {
					t.Fatalf("Expected UnresolvedGenericError, got %v", err)
				}
				if unresolved.Name != "T" {
					t.Errorf("Expected placeholder T, got %q", unresolved.Name)
				}
			},
		},
		{
			name: "type parameter that is not a placeholder",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "u8"},
				{TypeID: 1, Type: "struct Wrapper", Components: []TypeApplication{named("inner", 0)}, TypeParameters: []int{0}},
			},
			check: func(t *testing.T, err error) {
				var malformed *MalformedTypeError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedTypeError, got %v", err)
				}
			},
		},
		{
			name: "infinitely sized type",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "struct A", Components: []TypeApplication{named("b", 1)}},
				{TypeID: 1, Type: "struct B", Components: []TypeApplication{named("a", 0)}},
			},
			check: func(t *testing.T, err error) {
				var malformed *MalformedTypeError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedTypeError, got %v", err)
				}
			},
		},
		{
			name: "array without element",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "[u8; 2]"},
			},
			check: func(t *testing.T, err error) {
				var malformed *MalformedTypeError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedTypeError, got %v", err)
				}
			},
		},
		{
			name: "option without Some",
			decls: []TypeDeclaration{
				{TypeID: 0, Type: "()"},
				{TypeID: 1, Type: "enum Option", Components: []TypeApplication{named("None", 0), named("Nothing", 0)}},
			},
			check: func(t *testing.T, err error) {
				var malformed *MalformedTypeError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedTypeError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ResolveTypes(tt.decls)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if g != nil {
				t.Error("Expected no partial graph")
			}
			if !errors.Is(err, ErrInvalidDescription) {
				t.Errorf("Expected error to wrap ErrInvalidDescription, got %v", err)
			}
			tt.check(t, err)
		})
	}
}

func TestResolveTypesOutOfOrder(t *testing.T) {
	decls := []TypeDeclaration{
		{TypeID: 5, Type: "struct Outer", Components: []TypeApplication{named("inner", 9), named("flag", 2)}},
		{TypeID: 9, Type: "struct Inner", Components: []TypeApplication{named("value", 1)}},
		{TypeID: 1, Type: "u32"},
		{TypeID: 2, Type: "bool"},
	}

	g, err := ResolveTypes(decls)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	outer := g.MustLookup(5)
	if outer.EncodedSize() != 5 {
		t.Errorf("Expected size 5, got %d", outer.EncodedSize())
	}
	inner, _ := outer.Field("inner")
	if inner.Type != g.MustLookup(9) {
		t.Error("Expected inner to reference the Inner root")
	}
}

func TestResolveEmptyAggregates(t *testing.T) {
	decls := []TypeDeclaration{
		{TypeID: 0, Type: "struct Marker"},
		{TypeID: 1, Type: "enum Never"},
	}

	g, err := ResolveTypes(decls)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if size := g.MustLookup(0).EncodedSize(); size != 0 {
		t.Errorf("Expected empty struct size 0, got %d", size)
	}
	if size := g.MustLookup(1).EncodedSize(); size != DiscriminantSize {
		t.Errorf("Expected empty enum size %d, got %d", DiscriminantSize, size)
	}
}

func TestResolveSkipOptions(t *testing.T) {
	decls := []TypeDeclaration{
		{TypeID: 0, Type: "u64"},
		{TypeID: 1, Type: "struct Point", Components: []TypeApplication{named("x", 0)}},
		{TypeID: 2, Type: "()"},
		{TypeID: 3, Type: "generic T"},
	}

	t.Run("WithSkipTypes hides extra declarations", func(t *testing.T) {
		g, err := ResolveTypes(decls, WithSkipTypes("struct Point"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, ok := g.Lookup(1); ok {
			t.Error("Expected Point to be hidden")
		}
		point, ok := g.Internal(1)
		if !ok || point.Kind() != KindOpaque {
			t.Errorf("Expected hidden Point to be opaque, got %v", point)
		}
		if g.Len() != 1 {
			t.Errorf("Expected 1 visible type, got %d", g.Len())
		}
	})

	t.Run("WithSkipFunc(nil) hides nothing", func(t *testing.T) {
		g, err := ResolveTypes(decls, WithSkipFunc(nil))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if g.Len() != 4 {
			t.Errorf("Expected 4 visible types, got %d", g.Len())
		}
		if g.MustLookup(3).Kind() != KindGeneric {
			t.Errorf("Expected placeholder to stay generic, got %s", g.MustLookup(3).Kind())
		}
	})
}

func TestResolveFunctionWithPlaceholder(t *testing.T) {
	doc := &Document{
		Types: []TypeDeclaration{
			{TypeID: 0, Type: "generic T"},
		},
		Functions: []FunctionDeclaration{
			{Name: "bad", Inputs: []TypeApplication{named("x", 0)}, Output: app(0)},
		},
	}

	_, err := NewResolver().Resolve(doc)
	var unresolved *UnresolvedGenericError
	if !errors.As(err, &unresolved) {
		t.Fatalf("Expected UnresolvedGenericError, got %v", err)
	}
	if unresolved.Referrer != `function "bad"` {
		t.Errorf("Expected referrer %q, got %q", `function "bad"`, unresolved.Referrer)
	}
}

func TestMustLookupPanics(t *testing.T) {
	g, err := ResolveTypes([]TypeDeclaration{{TypeID: 0, Type: "u8"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected MustLookup to panic")
		}
	}()
	g.MustLookup(42)
}
