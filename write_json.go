package pandoctree

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// WriteJSON encodes a document into wire JSON under this context's rule set.
func (c *Context) WriteJSON(doc *Document) ([]byte, error) {
	e := &encoder{ctx: c}
	wire, err := e.value(doc, "")
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(wire)
	if err != nil {
		return nil, Issues{Issue{Code: CodeShapeMismatch, Message: "marshal failed", Cause: err}}
	}
	return out, nil
}

// WriteJSONFragment encodes any tree value (a node, list, map, ...) into its
// wire JSON form.
func (c *Context) WriteJSONFragment(v Value) ([]byte, error) {
	e := &encoder{ctx: c}
	wire, err := e.value(v, "")
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(wire)
	if err != nil {
		return nil, Issues{Issue{Code: CodeShapeMismatch, Message: "marshal failed", Cause: err}}
	}
	return out, nil
}

// WriteJSON encodes a document with the process-wide default context.
func WriteJSON(doc *Document) ([]byte, error) { return Default().WriteJSON(doc) }

// encoder is the structural inverse of decoder: it dispatches on the closed
// set of value kinds and rebuilds the wire shape the decoder expects back.
type encoder struct {
	ctx *Context
}

func (e *encoder) value(v Value, path string) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int64, float64, json.Number:
		return x, nil
	case List:
		return e.sequence(x, path)
	case Tuple:
		out, err := e.sequence(List(x), path)
		if err != nil {
			return nil, err
		}
		return out, nil
	case *Map:
		out := NewMap()
		for _, p := range x.Pairs() {
			ev, err := e.value(p.Value, path+"/"+p.Key)
			if err != nil {
				return nil, err
			}
			out.Set(p.Key, ev)
		}
		return out, nil
	case Option:
		inner, some := x.Get()
		if !some {
			return nil, nil
		}
		return e.value(inner, path)
	case *Meta:
		return e.meta(x, path)
	case *Document:
		return e.document(x, path)
	case *Node:
		return e.node(x, path)
	default:
		return nil, issuef(CodeShapeMismatch, path, "", "cannot encode value of kind %s", valueKind(v))
	}
}

func (e *encoder) sequence(items List, path string) (List, error) {
	out := make(List, 0, len(items))
	for i, item := range items {
		ev, err := e.value(item, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// meta encodes the root metadata map: a bare object under v2, the
// {"unMeta": ...} wrapper under v1.
func (e *encoder) meta(m *Meta, path string) (Value, error) {
	inner, err := e.value(m.Map(), path)
	if err != nil {
		return nil, err
	}
	if e.ctx.gen == genV1 {
		wrapped := NewMap()
		wrapped.Set("unMeta", inner)
		return wrapped, nil
	}
	return inner, nil
}

// document encodes the root envelope: a two-element array under v1, the
// three-key object with the integer api version under v2.
func (e *encoder) document(doc *Document, path string) (Value, error) {
	metaWire, err := e.meta(doc.Meta, path+"/meta")
	if err != nil {
		return nil, err
	}
	blocksWire, err := e.sequence(doc.Blocks, path+"/blocks")
	if err != nil {
		return nil, err
	}
	if e.ctx.gen == genV1 {
		return List{metaWire, blocksWire}, nil
	}
	apiVersion := make(List, 0, len(e.ctx.Version))
	for _, n := range e.ctx.Version {
		apiVersion = append(apiVersion, n)
	}
	out := NewMap()
	out.Set("pandoc-api-version", apiVersion)
	out.Set("meta", metaWire)
	out.Set("blocks", blocksWire)
	return out, nil
}

func (e *encoder) node(n *Node, path string) (Value, error) {
	ctor, err := e.ctx.Types.Constructor(n.Tag())
	if err != nil {
		return nil, issuef(CodeUnknownConstructor, path, n.Tag(), "unknown constructor %q", n.Tag())
	}
	single := ctor.Parent.SingleConstructor()

	if ctor.Record {
		out := NewMap()
		if !single {
			out.Set("t", ctor.Name)
		}
		for i, f := range ctor.Fields {
			ev, err := e.value(n.Arg(i), path+"/"+f.Name)
			if err != nil {
				return nil, err
			}
			out.Set(f.Name, ev)
		}
		return out, nil
	}

	cs, err := e.sequence(List(n.Args()), path)
	if err != nil {
		return nil, err
	}
	var payload Value = cs
	if ctor.Arity() == 1 {
		// Single-argument constructors write the bare argument; for
		// list_arg constructors that argument already is the whole list.
		payload = cs[0]
	}
	if single {
		return payload, nil
	}
	out := NewMap()
	out.Set("t", ctor.Name)
	if e.ctx.gen == genV1 || ctor.Arity() > 0 {
		// v1 always wrote a "c" key, even an empty one; v2 drops it for
		// nullary constructors.
		out.Set("c", payload)
	}
	return out, nil
}
