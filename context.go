package pandoctree

import (
	"sync"

	"github.com/pandoctree/pandoctree/grammar"
)

// DefaultTypesVersion is the pandoc-types version assumed when no explicit
// configuration was made.
const DefaultTypesVersion = "1.22.2"

// Context carries the resolved schema version and the registry built for it.
// Codec calls take the context explicitly so that one document is always
// decoded and encoded under a single consistent rule set; nothing inside the
// recursive codec paths consults ambient state.
type Context struct {
	Version Version
	Types   *grammar.Registry

	gen generation
}

// NewContext builds a context for a pandoc-types version string such as
// "1.16" or "1.22.2". The registry content is derived entirely from the
// version.
func NewContext(version string) (*Context, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return NewContextVersion(v)
}

// NewContextVersion is NewContext for an already-parsed version.
func NewContextVersion(v Version) (*Context, error) {
	gen, err := generationFor(v)
	if err != nil {
		return nil, err
	}
	reg := grammar.NewRegistry()
	if err := loadDefinitions(reg, v); err != nil {
		return nil, wrapGrammarErr(err, "")
	}
	return &Context{Version: v, Types: reg, gen: gen}, nil
}

// Process-wide convenience default for single-session callers. Concurrent
// reconfiguration is serialized here; the Context values themselves are
// read-only after construction.
var (
	defaultMu  sync.RWMutex
	defaultCtx *Context
)

// Configure sets the process-wide default context to the given pandoc-types
// version and returns it.
func Configure(version string) (*Context, error) {
	ctx, err := NewContext(version)
	if err != nil {
		return nil, err
	}
	defaultMu.Lock()
	defaultCtx = ctx
	defaultMu.Unlock()
	return ctx, nil
}

// ResetDefault clears the process-wide default context.
func ResetDefault() {
	defaultMu.Lock()
	defaultCtx = nil
	defaultMu.Unlock()
}

// Default returns the process-wide default context, configuring it for
// DefaultTypesVersion on first use.
func Default() *Context {
	defaultMu.RLock()
	ctx := defaultCtx
	defaultMu.RUnlock()
	if ctx != nil {
		return ctx
	}
	ctx, err := Configure(DefaultTypesVersion)
	if err != nil {
		// DefaultTypesVersion is a compile-time constant known to be valid.
		panic(err)
	}
	return ctx
}

// New constructs a tagged node, checking arity and the shallow shape of each
// argument against the constructor's declared field types.
func (c *Context) New(tag string, args ...Value) (*Node, error) {
	ctor, err := c.Types.Constructor(tag)
	if err != nil {
		return nil, wrapGrammarErr(err, "")
	}
	if len(args) != ctor.Arity() {
		return nil, issuef(CodeBadArity, "", tag, "%s takes %d arguments, got %d", tag, ctor.Arity(), len(args))
	}
	for i, f := range ctor.Fields {
		if err := c.checkShape(args[i], f.Type); err != nil {
			iss := err.(Issues)
			iss[0].Name = tag
			return nil, iss
		}
	}
	dup := make([]Value, len(args))
	copy(dup, args)
	return &Node{tag: tag, args: dup}, nil
}

// MustNew is New for statically known constructions; it panics on error.
func (c *Context) MustNew(tag string, args ...Value) *Node {
	n, err := c.New(tag, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// checkShape verifies the outermost kind of v against a field type. The
// check is deliberately shallow: container elements are validated when they
// are themselves constructed or decoded.
func (c *Context) checkShape(v Value, t grammar.Expr) error {
	switch t.Kind {
	case grammar.List:
		if _, ok := v.(List); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a List, got %s", t, valueKind(v))
		}
	case grammar.Tuple:
		tup, ok := v.(Tuple)
		if !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a Tuple, got %s", t, valueKind(v))
		}
		if len(tup) != len(t.Args) {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a %d-tuple, got %d elements", t, len(t.Args), len(tup))
		}
	case grammar.Map:
		if _, ok := v.(*Map); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a Map, got %s", t, valueKind(v))
		}
	case grammar.Option:
		if _, ok := v.(Option); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants an Option, got %s", t, valueKind(v))
		}
	case grammar.Name:
		return c.checkNamedShape(v, t.Name)
	}
	return nil
}

func (c *Context) checkNamedShape(v Value, name string) error {
	switch name {
	case "String", "Text":
		if _, ok := v.(string); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a string, got %s", name, valueKind(v))
		}
		return nil
	case "Int":
		if _, ok := v.(int); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants an int, got %s", name, valueKind(v))
		}
		return nil
	case "Double":
		switch v.(type) {
		case float64, int:
			return nil
		}
		return issuef(CodeShapeMismatch, "", "", "field %s wants a float, got %s", name, valueKind(v))
	case "Bool":
		if _, ok := v.(bool); !ok {
			return issuef(CodeShapeMismatch, "", "", "field %s wants a bool, got %s", name, valueKind(v))
		}
		return nil
	case "Meta":
		if _, ok := v.(*Meta); !ok {
			return issuef(CodeShapeMismatch, "", "", "field Meta wants *Meta, got %s", valueKind(v))
		}
		return nil
	case "Pandoc":
		if _, ok := v.(*Document); !ok {
			return issuef(CodeShapeMismatch, "", "", "field Pandoc wants *Document, got %s", valueKind(v))
		}
		return nil
	}
	t, err := c.Types.Type(name)
	if err != nil {
		return wrapGrammarErr(err, "")
	}
	if t.Kind == grammar.Alias {
		return c.checkShape(v, t.Aliased)
	}
	n, ok := v.(*Node)
	if !ok {
		return issuef(CodeShapeMismatch, "", "", "field %s wants a %s node, got %s", name, name, valueKind(v))
	}
	ctor, err := c.Types.Constructor(n.Tag())
	if err != nil {
		return wrapGrammarErr(err, "")
	}
	if ctor.Parent != t {
		return issuef(CodeShapeMismatch, "", "", "constructor %s does not belong to %s", n.Tag(), name)
	}
	return nil
}

// valueKind names the kind of a value for error messages.
func valueKind(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case List:
		return "List"
	case Tuple:
		return "Tuple"
	case *Map:
		return "Map"
	case Option:
		return "Option"
	case *Node:
		return "Node"
	case *Meta:
		return "Meta"
	case *Document:
		return "Document"
	default:
		return "unknown"
	}
}
