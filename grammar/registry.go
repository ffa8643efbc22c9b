package grammar

import "strings"

// Registry owns every Type and Constructor declared for one schema
// generation. It is plain in-memory state with no locking; rebuild it (or
// guard it) when switching schema versions from multiple goroutines.
type Registry struct {
	types map[string]*Type
	ctors map[string]*Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset drops every declared type and constructor. Descriptors from a
// previous schema version must not leak across a version switch.
func (r *Registry) Reset() {
	r.types = make(map[string]*Type)
	r.ctors = make(map[string]*Constructor)
}

// Len returns the number of declared types.
func (r *Registry) Len() int { return len(r.types) }

func (r *Registry) addType(t *Type) error {
	if _, dup := r.types[t.Name]; dup {
		return &RedeclaredError{Name: t.Name}
	}
	r.types[t.Name] = t
	return nil
}

func (r *Registry) addCtor(c *Constructor) error {
	if _, dup := r.ctors[c.Name]; dup {
		return &RedeclaredError{Name: c.Name}
	}
	r.ctors[c.Name] = c
	return nil
}

func (r *Registry) declare(name, spec string, kind TypeKind) error {
	t := &Type{Name: name, Kind: kind}
	for _, line := range strings.Split(spec, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cname, fields, record, err := parseLine(line)
		if err != nil {
			return err
		}
		c := &Constructor{
			Name:    cname,
			Fields:  fields,
			Record:  record,
			ListArg: !record && len(fields) == 1 && fields[0].Type.Kind == List,
			Parent:  t,
		}
		if err := r.addCtor(c); err != nil {
			return err
		}
		t.Constructors = append(t.Constructors, c)
	}
	if len(t.Constructors) == 0 {
		return &SyntaxError{Line: name, Reason: "empty production"}
	}
	return r.addType(t)
}

// DeclareSum declares a sum type: one constructor per non-blank line of spec.
func (r *Registry) DeclareSum(name, spec string) error {
	return r.declare(name, spec, Data)
}

// DeclareNewtype declares a single-constructor wrapper type. The spec must
// hold exactly one production.
func (r *Registry) DeclareNewtype(name, spec string) error {
	if err := r.declare(name, spec, Newtype); err != nil {
		return err
	}
	if n := len(r.types[name].Constructors); n != 1 {
		return &SyntaxError{Line: spec, Reason: "newtype needs exactly one constructor"}
	}
	return nil
}

// DeclareAlias declares name as a rename of the given type expression.
func (r *Registry) DeclareAlias(name, expr string) error {
	e, err := parseExpr(expr)
	if err != nil {
		return err
	}
	return r.addType(&Type{Name: name, Kind: Alias, Aliased: e})
}

// PreserveTag marks a declared type so that its constructor tag is kept on
// the wire even when the type has a single constructor.
func (r *Registry) PreserveTag(name string) error {
	t, ok := r.types[name]
	if !ok {
		return &UnknownTypeError{Name: name}
	}
	t.KeepTag = true
	return nil
}

// Type looks up a declared type by name.
func (r *Registry) Type(name string) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return t, nil
}

// Constructor looks up a constructor by name. Decoders use this to resolve
// the "t" tag read from wire data; an unknown tag is always an error, never
// silently defaulted.
func (r *Registry) Constructor(name string) (*Constructor, error) {
	c, ok := r.ctors[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return c, nil
}

// Names returns the declared type names, in no particular order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	return out
}

// Has reports whether name resolves to a type or constructor.
func (r *Registry) Has(name string) bool {
	_, t := r.types[name]
	_, c := r.ctors[name]
	return t || c
}

// Resolve returns the declaration for name, preferring the type over a
// same-named constructor.
func (r *Registry) Resolve(name string) (Decl, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}
	if c, ok := r.ctors[name]; ok {
		return c, nil
	}
	return nil, &UnknownTypeError{Name: name}
}
