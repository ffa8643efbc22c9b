// Package grammar turns a compact textual description of an algebraic
// document grammar into a name-indexed table of type and constructor
// descriptors. The notation is one production per line:
//
//	CtorName fieldType fieldType ...
//
// A field type is a bare name (Str, Int, Block, ...), a list [X] with
// arbitrary nesting, a tuple (A, B, ...), a map (Map K V), an option
// (Maybe X), or a record block {field1 T1, field2 T2, ...}. The registry
// resolves names by table lookup only; no text is ever evaluated.
package grammar

import "strings"

// ExprKind identifies the shape of a field-type expression.
type ExprKind int

const (
	Name ExprKind = iota // a named type (primitive or declared)
	List                 // [X]
	Tuple                // (A, B, ...)
	Map                  // (Map K V)
	Option               // (Maybe X)
)

// Expr is a field-type expression. Args holds the element type for List and
// Option, key/value for Map, and the member types for Tuple.
type Expr struct {
	Kind ExprKind
	Name string
	Args []Expr
}

// NameOf builds a named type expression.
func NameOf(name string) Expr { return Expr{Kind: Name, Name: name} }

// ListOf builds a [X] expression.
func ListOf(elem Expr) Expr { return Expr{Kind: List, Args: []Expr{elem}} }

// TupleOf builds an (A, B, ...) expression.
func TupleOf(members ...Expr) Expr { return Expr{Kind: Tuple, Args: members} }

// MapOf builds a (Map K V) expression.
func MapOf(key, value Expr) Expr { return Expr{Kind: Map, Args: []Expr{key, value}} }

// OptionOf builds a (Maybe X) expression.
func OptionOf(elem Expr) Expr { return Expr{Kind: Option, Args: []Expr{elem}} }

// String renders the expression back into the declaration notation.
func (e Expr) String() string {
	switch e.Kind {
	case Name:
		return e.Name
	case List:
		return "[" + e.Args[0].String() + "]"
	case Tuple:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Map:
		return "(Map " + e.Args[0].String() + " " + e.Args[1].String() + ")"
	case Option:
		return "(Maybe " + e.Args[0].String() + ")"
	}
	return "?"
}

// Field is one constructor argument: an optional name (records only) and a
// type expression.
type Field struct {
	Name string // empty for positional fields
	Type Expr
}

// Constructor is one named alternative of a declared type. ListArg marks a
// constructor whose whole field list is exactly one list-typed field; at the
// JSON boundary such a constructor's payload is the bare list, never a
// one-element wrapper list. The flag is computed once at registration.
type Constructor struct {
	Name    string
	Fields  []Field
	Record  bool // fields are accessed by name
	ListArg bool
	Parent  *Type // back-reference, set by the registry
}

// Arity returns the number of declared fields.
func (c *Constructor) Arity() int { return len(c.Fields) }

func (c *Constructor) declName() string { return c.Name }

// TypeKind distinguishes how a name was declared.
type TypeKind int

const (
	Data    TypeKind = iota // sum type, one or more constructors
	Newtype                 // single-constructor wrapper
	Alias                   // renames another expression
)

// Type describes one declared grammar production.
type Type struct {
	Name         string
	Kind         TypeKind
	Constructors []*Constructor // Data/Newtype only
	Aliased      Expr           // Alias only
	// KeepTag suppresses single-constructor tag erasure for this type. The
	// built-in pandoc grammars never set it; it exists as the enumerated
	// escape hatch for schema generations that stop erasing a given tag.
	KeepTag bool
}

// SingleConstructor reports whether the wire form of this type erases the
// constructor tag.
func (t *Type) SingleConstructor() bool {
	return len(t.Constructors) == 1 && !t.KeepTag
}

func (t *Type) declName() string { return t.Name }

// Decl is either a *Type or a *Constructor, as returned by Registry.Resolve.
type Decl interface {
	declName() string
}

// primitives are the leaf types understood directly by the codec.
var primitives = map[string]bool{
	"String": true,
	"Int":    true,
	"Double": true,
	"Bool":   true,
}

// IsPrimitive reports whether name is a built-in scalar type.
func IsPrimitive(name string) bool { return primitives[name] }
