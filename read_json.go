package pandoctree

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/pandoctree/pandoctree/grammar"
)

// ReadJSON decodes a complete wire document under this context's rule set.
func (c *Context) ReadJSON(data []byte) (*Document, error) {
	raw, err := parseOrderedJSON(data)
	if err != nil {
		return nil, err
	}
	d := &decoder{ctx: c}
	v, err := d.named(raw, "Pandoc", "")
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*Document)
	if !ok {
		return nil, issuef(CodeShapeMismatch, "", "Pandoc", "decoded value is not a document")
	}
	return doc, nil
}

// ReadJSONFragment decodes a JSON fragment against a type expression such
// as "Inline", "[Block]" or "(Map String MetaValue)".
func (c *Context) ReadJSONFragment(data []byte, typeExpr string) (Value, error) {
	e, err := grammar.ParseExpr(typeExpr)
	if err != nil {
		return nil, wrapGrammarErr(err, "")
	}
	raw, err := parseOrderedJSON(data)
	if err != nil {
		return nil, err
	}
	d := &decoder{ctx: c}
	return d.expr(raw, e, "")
}

// ReadJSON decodes a wire document with the process-wide default context.
func ReadJSON(data []byte) (*Document, error) { return Default().ReadJSON(data) }

// parseOrderedJSON reads JSON token by token so that object key order
// survives into *Map values. Containers become List/*Map, numbers stay
// json.Number until a descriptor says whether they are Int or Double.
func parseOrderedJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readOrderedValue(dec)
	if err != nil {
		return nil, Issues{Issue{Code: CodeShapeMismatch, Message: "invalid JSON input", Cause: err}}
	}
	return v, nil
}

func readOrderedValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return readOrderedFrom(dec, tok)
}

func readOrderedFrom(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := ktok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %v, not a string", ktok)
				}
				v, err := readOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			lst := List{}
			for dec.More() {
				v, err := readOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				lst = append(lst, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return lst, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return t, nil
	case bool:
		return t, nil
	case json.Number:
		return t, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// decoder walks a type descriptor and a parsed JSON value in lock-step.
type decoder struct {
	ctx *Context
}

func (d *decoder) expr(j Value, t grammar.Expr, path string) (Value, error) {
	switch t.Kind {
	case grammar.Name:
		return d.named(j, t.Name, path)
	case grammar.List:
		lst, ok := j.(List)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, "", "expected array for %s, got %s", t, jsonKind(j))
		}
		out := make(List, 0, len(lst))
		for i, item := range lst {
			v, err := d.expr(item, t.Args[0], path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case grammar.Tuple:
		lst, ok := j.(List)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, "", "expected array for %s, got %s", t, jsonKind(j))
		}
		if len(lst) != len(t.Args) {
			return nil, issuef(CodeShapeMismatch, path, "", "expected %d elements for %s, got %d", len(t.Args), t, len(lst))
		}
		out := make(Tuple, 0, len(lst))
		for i, item := range lst {
			v, err := d.expr(item, t.Args[i], path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case grammar.Map:
		m, ok := j.(*Map)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, "", "expected object for %s, got %s", t, jsonKind(j))
		}
		out := NewMap()
		for _, p := range m.Pairs() {
			kv, err := d.expr(p.Key, t.Args[0], path+"/"+p.Key)
			if err != nil {
				return nil, err
			}
			key, ok := kv.(string)
			if !ok {
				return nil, issuef(CodeShapeMismatch, path+"/"+p.Key, "", "map key must decode to a string")
			}
			vv, err := d.expr(p.Value, t.Args[1], path+"/"+p.Key)
			if err != nil {
				return nil, err
			}
			out.Set(key, vv)
		}
		return out, nil
	case grammar.Option:
		if j == nil {
			return None(), nil
		}
		v, err := d.expr(j, t.Args[0], path)
		if err != nil {
			return nil, err
		}
		return Some(v), nil
	}
	return nil, issuef(CodeShapeMismatch, path, "", "unhandled type expression %s", t)
}

func (d *decoder) named(j Value, name, path string) (Value, error) {
	switch name {
	case "String", "Text":
		s, ok := j.(string)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, name, "expected string, got %s", jsonKind(j))
		}
		return s, nil
	case "Int":
		switch n := j.(type) {
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, issuef(CodeShapeMismatch, path, name, "expected integer, got %s", n.String())
			}
			return int(i), nil
		case int:
			return n, nil
		}
		return nil, issuef(CodeShapeMismatch, path, name, "expected integer, got %s", jsonKind(j))
	case "Double":
		switch n := j.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, issuef(CodeShapeMismatch, path, name, "expected number, got %s", n.String())
			}
			return f, nil
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
		return nil, issuef(CodeShapeMismatch, path, name, "expected number, got %s", jsonKind(j))
	case "Bool":
		b, ok := j.(bool)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, name, "expected bool, got %s", jsonKind(j))
		}
		return b, nil
	}

	// The v2 format carries two irregular cases ahead of the generic
	// tag-driven rule: the document root and the root metadata map.
	if d.ctx.gen == genV2 {
		switch name {
		case "Pandoc":
			return d.documentV2(j, path)
		case "Meta":
			return d.metaMap(j, path)
		}
	}

	t, err := d.ctx.Types.Type(name)
	if err != nil {
		return nil, wrapGrammarErr(err, path)
	}
	if t.Kind == grammar.Alias {
		return d.expr(j, t.Aliased, path)
	}
	return d.node(j, t, path)
}

var metaMapExpr = grammar.MapOf(grammar.NameOf("String"), grammar.NameOf("MetaValue"))

func (d *decoder) metaMap(j Value, path string) (Value, error) {
	v, err := d.expr(j, metaMapExpr, path)
	if err != nil {
		return nil, err
	}
	return NewMeta(v.(*Map)), nil
}

func (d *decoder) documentV2(j Value, path string) (Value, error) {
	m, ok := j.(*Map)
	if !ok {
		return nil, issuef(CodeShapeMismatch, path, "Pandoc", "document envelope must be an object, got %s", jsonKind(j))
	}
	verRaw, ok := m.Get("pandoc-api-version")
	if !ok {
		return nil, issuef(CodeShapeMismatch, path, "Pandoc", `missing "pandoc-api-version"`)
	}
	verList, ok := verRaw.(List)
	if !ok {
		return nil, issuef(CodeShapeMismatch, path+"/pandoc-api-version", "Pandoc", "version must be an array of integers")
	}
	wire := make(Version, 0, len(verList))
	for _, item := range verList {
		n, ok := item.(json.Number)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path+"/pandoc-api-version", "Pandoc", "version must be an array of integers")
		}
		i, err := n.Int64()
		if err != nil {
			return nil, issuef(CodeShapeMismatch, path+"/pandoc-api-version", "Pandoc", "version must be an array of integers")
		}
		wire = append(wire, int(i))
	}
	if gen, err := generationFor(wire); err != nil || gen != genV2 {
		return nil, issuef(CodeUnsupportedVersion, path+"/pandoc-api-version", "Pandoc",
			"document declares pandoc-api-version %s, which the v2 rules cannot decode", wire.String())
	}
	metaRaw, ok := m.Get("meta")
	if !ok {
		return nil, issuef(CodeShapeMismatch, path, "Pandoc", `missing "meta"`)
	}
	metaVal, err := d.metaMap(metaRaw, path+"/meta")
	if err != nil {
		return nil, err
	}
	blocksRaw, ok := m.Get("blocks")
	if !ok {
		return nil, issuef(CodeShapeMismatch, path, "Pandoc", `missing "blocks"`)
	}
	blocks, err := d.expr(blocksRaw, grammar.ListOf(grammar.NameOf("Block")), path+"/blocks")
	if err != nil {
		return nil, err
	}
	return NewDocument(metaVal.(*Meta), blocks.(List)), nil
}

func (d *decoder) node(j Value, t *grammar.Type, path string) (Value, error) {
	var ctor *grammar.Constructor
	if t.SingleConstructor() {
		ctor = t.Constructors[0]
	} else {
		m, ok := j.(*Map)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, t.Name, "expected tagged object for %s, got %s", t.Name, jsonKind(j))
		}
		tagRaw, ok := m.Get("t")
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, t.Name, `missing "t" tag for %s`, t.Name)
		}
		tag, ok := tagRaw.(string)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path+"/t", t.Name, `"t" tag must be a string`)
		}
		c, err := d.ctx.Types.Constructor(tag)
		if err != nil {
			return nil, issuef(CodeUnknownConstructor, path+"/t", tag, "unknown constructor %q", tag)
		}
		if c.Parent != t {
			return nil, issuef(CodeShapeMismatch, path+"/t", tag, "constructor %s does not belong to %s", tag, t.Name)
		}
		ctor = c
	}

	var args []Value
	if ctor.Record {
		m, ok := j.(*Map)
		if !ok {
			return nil, issuef(CodeShapeMismatch, path, ctor.Name, "expected object with named fields for %s, got %s", ctor.Name, jsonKind(j))
		}
		args = make([]Value, 0, ctor.Arity())
		for _, f := range ctor.Fields {
			fj, ok := m.Get(f.Name)
			if !ok {
				return nil, issuef(CodeShapeMismatch, path, ctor.Name, "missing field %q of %s", f.Name, ctor.Name)
			}
			v, err := d.expr(fj, f.Type, path+"/"+f.Name)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	} else {
		payload, ppath, err := d.payload(j, t, ctor, path)
		if err != nil {
			return nil, err
		}
		switch {
		case ctor.Arity() == 0:
			// Nullary constructors like Space and HorizontalRule carry no
			// payload worth reading.
		case ctor.Arity() == 1:
			// Covers the list_arg case too: the payload IS the bare list,
			// never a one-element wrapper list.
			v, err := d.expr(payload, ctor.Fields[0].Type, ppath)
			if err != nil {
				return nil, err
			}
			args = []Value{v}
		default:
			lst, ok := payload.(List)
			if !ok {
				return nil, issuef(CodeShapeMismatch, ppath, ctor.Name, "expected argument array for %s, got %s", ctor.Name, jsonKind(payload))
			}
			if len(lst) != ctor.Arity() {
				return nil, issuef(CodeShapeMismatch, ppath, ctor.Name, "%s takes %d arguments, wire has %d", ctor.Name, ctor.Arity(), len(lst))
			}
			args = make([]Value, 0, ctor.Arity())
			for i, item := range lst {
				v, err := d.expr(item, ctor.Fields[i].Type, ppath+"/"+strconv.Itoa(i))
				if err != nil {
					return nil, err
				}
				args = append(args, v)
			}
		}
	}
	return d.construct(ctor, args)
}

// payload locates the constructor argument payload: the bare JSON value for
// tag-erased types, the "c" field otherwise. v2 tolerates a missing "c" on
// nullary constructors; v1 always wrote one.
func (d *decoder) payload(j Value, t *grammar.Type, ctor *grammar.Constructor, path string) (Value, string, error) {
	if t.SingleConstructor() {
		return j, path, nil
	}
	m := j.(*Map) // established by the tag read above
	c, ok := m.Get("c")
	if !ok {
		if d.ctx.gen == genV2 {
			return List{}, path + "/c", nil
		}
		return nil, "", issuef(CodeShapeMismatch, path, ctor.Name, `missing "c" payload for %s`, ctor.Name)
	}
	return c, path + "/c", nil
}

// construct applies the resolved constructor. Pandoc and Meta build their
// dedicated aggregates; everything else becomes a generic tagged node.
func (d *decoder) construct(ctor *grammar.Constructor, args []Value) (Value, error) {
	switch ctor.Name {
	case "Pandoc":
		meta, _ := args[0].(*Meta)
		blocks, _ := args[1].(List)
		if meta == nil || blocks == nil {
			return nil, issuef(CodeShapeMismatch, "", "Pandoc", "malformed document arguments")
		}
		return NewDocument(meta, blocks), nil
	case "Meta":
		m, _ := args[0].(*Map)
		if m == nil {
			return nil, issuef(CodeShapeMismatch, "", "Meta", "malformed metadata argument")
		}
		return NewMeta(m), nil
	}
	return &Node{tag: ctor.Name, args: args}, nil
}

// jsonKind names the JSON shape of a parsed value for error messages.
func jsonKind(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, int, float64:
		return "number"
	case List:
		return "array"
	case *Map:
		return "object"
	default:
		return "unknown"
	}
}
