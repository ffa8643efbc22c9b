package pandoctree

import (
	"iter"
	"reflect"
)

// PathStep is one hop from a parent value to its i-th child.
type PathStep struct {
	Parent Value
	Index  int
}

// Path is the ordered chain of steps from a root down to a value's
// position. It is redundant on purpose: holding both the parents and the
// indexes makes re-locating a value after a rebuild trivial.
type Path []PathStep

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Children returns the immediate child values of v in declaration order:
// constructor arguments for nodes, elements for sequences, key-value pairs
// (as 2-tuples) for maps, the held value for a non-empty option, metadata
// then blocks for a document. Scalars have no children; strings are never
// decomposed into characters.
func Children(v Value) []Value {
	switch x := v.(type) {
	case *Node:
		return x.Args()
	case *Document:
		return []Value{x.Meta, x.Blocks}
	case *Meta:
		return []Value{x.Map()}
	case *Map:
		pairs := x.Pairs()
		out := make([]Value, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, Tuple{p.Key, p.Value})
		}
		return out
	case List:
		return x
	case Tuple:
		return x
	case Option:
		if inner, some := x.Get(); some {
			return []Value{inner}
		}
		return nil
	default:
		return nil
	}
}

// Walk runs a pre-order depth-first traversal, calling fn for every value,
// the value itself first. When trackPath is true the path from root is
// maintained and passed along (callers must Clone it to retain it past the
// call). enter and exit, when non-nil, run on entry to and exit from each
// subtree; derived utilities use them to maintain ancestor state without
// duplicating the walk. fn returning false stops the traversal.
func Walk(root Value, trackPath bool, enter, exit func(Value, Path), fn func(Value, Path) bool) {
	walk(root, nil, trackPath, enter, exit, fn)
}

func walk(v Value, path Path, track bool, enter, exit func(Value, Path), fn func(Value, Path) bool) bool {
	if enter != nil {
		enter(v, path)
	}
	if !fn(v, path) {
		return false
	}
	for i, child := range Children(v) {
		var cp Path
		if track {
			cp = append(path.Clone(), PathStep{Parent: v, Index: i})
		}
		if !walk(child, cp, track, enter, exit, fn) {
			return false
		}
	}
	if exit != nil {
		exit(v, path)
	}
	return true
}

// Iter yields every value of the subtree lazily, pre-order, v itself first.
func Iter(root Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		walk(root, nil, false, nil, nil, func(v Value, _ Path) bool {
			return yield(v)
		})
	}
}

// IterPath is Iter with path tracking: every yielded value comes with the
// (parent, childIndex) chain locating it under root. The yielded path is
// cloned and safe to retain.
func IterPath(root Value) iter.Seq2[Value, Path] {
	return func(yield func(Value, Path) bool) {
		walk(root, nil, true, nil, nil, func(v Value, p Path) bool {
			return yield(v, p.Clone())
		})
	}
}

// ParentOf returns the immediate parent of target inside root, or false
// when target is root itself or does not occur. The match is by identity,
// not structural equality: two equal Str nodes in different positions
// resolve to their own parents.
func ParentOf(root, target Value) (Value, bool) {
	var parent Value
	found := false
	Walk(root, true, nil, nil, func(v Value, p Path) bool {
		if !Same(v, target) {
			return true
		}
		if len(p) > 0 {
			parent = p[len(p)-1].Parent
			found = true
		}
		return false
	})
	return parent, found
}

// Same reports identity equality: pointer identity for nodes, maps, metas
// and documents, backing-array identity for lists and tuples, and plain
// equality for scalars (which carry no identity of their own).
func Same(a, b Value) bool {
	switch x := a.(type) {
	case *Node:
		y, ok := b.(*Node)
		return ok && x == y
	case *Map:
		y, ok := b.(*Map)
		return ok && x == y
	case *Meta:
		y, ok := b.(*Meta)
		return ok && x == y
	case *Document:
		y, ok := b.(*Document)
		return ok && x == y
	case List:
		y, ok := b.(List)
		return ok && len(x) == len(y) && sliceID(x) == sliceID(y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && len(x) == len(y) && sliceID(x) == sliceID(y)
	case Option:
		y, ok := b.(Option)
		if !ok || x.some != y.some {
			return false
		}
		if !x.some {
			return true
		}
		return Same(x.value, y.value)
	case nil:
		return b == nil
	default:
		y := b
		if reflect.TypeOf(a) != reflect.TypeOf(y) {
			return false
		}
		return a == y
	}
}

func sliceID(s []Value) uintptr {
	return reflect.ValueOf(s).Pointer()
}
