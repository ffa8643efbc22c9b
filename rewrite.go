package pandoctree

import "fmt"

// TransformFunc rewrites one value. Returning ok == false means "no
// change": the value with already-rewritten children is kept as is.
type TransformFunc func(v Value) (Value, bool)

// Rewrite applies transform bottom-up over the whole tree: every descendant
// is rewritten first, then the rebuilt value itself is offered to the
// transform. Tagged nodes are rebuilt through their own constructor tag,
// sequences and tuples keep their container kind, maps are rebuilt from
// transformed key-value pairs, and primitives pass through untouched.
func Rewrite(transform TransformFunc, root Value) Value {
	rebuilt := rewriteChildren(transform, root)
	if out, ok := transform(rebuilt); ok {
		return out
	}
	return rebuilt
}

func rewriteChildren(transform TransformFunc, v Value) Value {
	switch x := v.(type) {
	case *Node:
		args := x.Args()
		for i, a := range args {
			args[i] = Rewrite(transform, a)
		}
		return x.WithArgs(args...)
	case *Document:
		meta, ok := Rewrite(transform, x.Meta).(*Meta)
		if !ok {
			panic("pandoctree: Rewrite replaced document metadata with a non-Meta value")
		}
		blocks, ok := Rewrite(transform, x.Blocks).(List)
		if !ok {
			panic("pandoctree: Rewrite replaced document blocks with a non-List value")
		}
		return NewDocument(meta, blocks)
	case *Meta:
		entries, ok := Rewrite(transform, x.Map()).(*Map)
		if !ok {
			panic("pandoctree: Rewrite replaced the metadata map with a non-Map value")
		}
		return NewMeta(entries)
	case *Map:
		out := NewMap()
		for _, p := range x.Pairs() {
			pair := Rewrite(transform, Tuple{p.Key, p.Value})
			t, ok := pair.(Tuple)
			if !ok || len(t) != 2 {
				panic("pandoctree: Rewrite replaced a map entry with a non-pair value")
			}
			key, ok := t[0].(string)
			if !ok {
				panic(fmt.Sprintf("pandoctree: Rewrite replaced a map key with %s", valueKind(t[0])))
			}
			out.Set(key, t[1])
		}
		return out
	case List:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = Rewrite(transform, item)
		}
		return out
	case Tuple:
		out := make(Tuple, len(x))
		for i, item := range x {
			out[i] = Rewrite(transform, item)
		}
		return out
	case Option:
		if inner, some := x.Get(); some {
			return Some(Rewrite(transform, inner))
		}
		return x
	default:
		return v
	}
}
