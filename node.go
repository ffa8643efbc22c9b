package pandoctree

import "fmt"

// Node is one constructed AST value: a constructor tag plus an ordered,
// fixed-arity argument list. The arity and shallow shape of the arguments
// are checked against the grammar when the node is built (Context.New), and
// nodes are rebuilt rather than mutated afterwards, so the children always
// match what the registry declares for the tag. Nodes reference their
// descriptor weakly, by tag lookup, never by ownership.
type Node struct {
	tag  string
	args []Value
}

// Tag returns the constructor name.
func (n *Node) Tag() string { return n.tag }

// Arity returns the number of arguments.
func (n *Node) Arity() int { return len(n.args) }

// Arg returns the i-th argument.
func (n *Node) Arg(i int) Value { return n.args[i] }

// Args returns a copy of the argument list in declaration order.
func (n *Node) Args() []Value {
	out := make([]Value, len(n.args))
	copy(out, n.args)
	return out
}

// WithArgs rebuilds the node with replacement arguments. The arity must not
// change; controlled rebuilds keep the construction invariant intact where
// in-place index mutation would not.
func (n *Node) WithArgs(args ...Value) *Node {
	if len(args) != len(n.args) {
		panic(fmt.Sprintf("pandoctree: WithArgs(%s): got %d args, want %d", n.tag, len(args), len(n.args)))
	}
	dup := make([]Value, len(args))
	copy(dup, args)
	return &Node{tag: n.tag, args: dup}
}

// String reconstructs the constructor call syntax: Name(arg1, arg2, ...).
func (n *Node) String() string {
	return n.tag + "(" + joinRepr(n.args) + ")"
}

// Meta is the document's root metadata: an ordered string-keyed mapping of
// MetaValue trees. Its wire form is a plain map (wrapped in "unMeta" under
// v1 rules), never a tagged union, which is why it is a distinct kind rather
// than a generic Node.
type Meta struct {
	entries *Map
}

// NewMeta wraps an ordered map as document metadata. A nil map means empty
// metadata.
func NewMeta(entries *Map) *Meta {
	if entries == nil {
		entries = NewMap()
	}
	return &Meta{entries: entries}
}

// Map returns the underlying ordered mapping.
func (m *Meta) Map() *Map { return m.entries }

func (m *Meta) String() string {
	return "Meta(" + m.entries.String() + ")"
}

// Document is the root aggregate: metadata plus the ordered top-level
// blocks.
type Document struct {
	Meta   *Meta
	Blocks List
}

// NewDocument builds a document; nil metadata becomes empty metadata.
func NewDocument(meta *Meta, blocks List) *Document {
	if meta == nil {
		meta = NewMeta(nil)
	}
	return &Document{Meta: meta, Blocks: blocks}
}

func (d *Document) String() string {
	return "Pandoc(" + d.Meta.String() + ", " + Repr(d.Blocks) + ")"
}
