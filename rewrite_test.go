package pandoctree_test

import (
	"strings"
	"testing"

	"github.com/pandoctree/pandoctree"
)

func TestRewrite_NoChange(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"pandoc-api-version":[1,22],"meta":{"k":{"t":"MetaString","c":"v"}},"blocks":[{"t":"Para","c":[{"t":"Emph","c":[{"t":"Str","c":"hi"}]}]}]}`
	doc, err := ctx.ReadJSON([]byte(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	out := pandoctree.Rewrite(func(pandoctree.Value) (pandoctree.Value, bool) {
		return nil, false
	}, doc)
	rebuilt, ok := out.(*pandoctree.Document)
	if !ok {
		t.Fatalf("rewriting a document must yield a document, got %T", out)
	}
	enc, err := ctx.WriteJSON(rebuilt)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if string(enc) != data {
		t.Fatalf("identity rewrite changed the document:\n in: %s\nout: %s", data, enc)
	}
}

func TestRewrite_UppercaseStrings(t *testing.T) {
	ctx := mustContext(t, "1.22")
	doc := pandoctree.NewDocument(nil, pandoctree.List{
		ctx.MustNew("Para", pandoctree.List{ctx.MustNew("Str", "hi"), ctx.MustNew("Space"), ctx.MustNew("Str", "there")}),
	})
	out := pandoctree.Rewrite(func(v pandoctree.Value) (pandoctree.Value, bool) {
		n, ok := v.(*pandoctree.Node)
		if !ok || n.Tag() != "Str" {
			return nil, false
		}
		return n.WithArgs(strings.ToUpper(n.Arg(0).(string))), true
	}, doc).(*pandoctree.Document)

	var got []string
	for v := range pandoctree.Iter(out) {
		if s, ok := v.(string); ok {
			got = append(got, s)
		}
	}
	if len(got) != 2 || got[0] != "HI" || got[1] != "THERE" {
		t.Fatalf("expected uppercased leaves, got %v", got)
	}
	// The input tree is untouched.
	if doc.Blocks[0].(*pandoctree.Node).Arg(0).(pandoctree.List)[0].(*pandoctree.Node).Arg(0) != "hi" {
		t.Fatalf("Rewrite mutated its input")
	}
}

func TestRewrite_EmphToStrong(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"t":"Para","c":[{"t":"Emph","c":[{"t":"Str","c":"hi"}]}]}`
	v, err := ctx.ReadJSONFragment([]byte(data), "Block")
	if err != nil {
		t.Fatalf("ReadJSONFragment: %v", err)
	}
	out := pandoctree.Rewrite(func(v pandoctree.Value) (pandoctree.Value, bool) {
		n, ok := v.(*pandoctree.Node)
		if !ok || n.Tag() != "Emph" {
			return nil, false
		}
		return ctx.MustNew("Strong", n.Arg(0)), true
	}, v)
	enc, err := ctx.WriteJSONFragment(out)
	if err != nil {
		t.Fatalf("WriteJSONFragment: %v", err)
	}
	want := `{"t":"Para","c":[{"t":"Strong","c":[{"t":"Str","c":"hi"}]}]}`
	if string(enc) != want {
		t.Fatalf("rewrite output mismatch:\ngot:  %s\nwant: %s", enc, want)
	}
}

func TestRewrite_BottomUp(t *testing.T) {
	ctx := mustContext(t, "1.22")
	// The transform sees children already rewritten: when the Emph node is
	// offered, its Str child must already be uppercased.
	emph := ctx.MustNew("Emph", pandoctree.List{ctx.MustNew("Str", "hi")})
	sawUppercased := false
	pandoctree.Rewrite(func(v pandoctree.Value) (pandoctree.Value, bool) {
		switch n := v.(type) {
		case *pandoctree.Node:
			switch n.Tag() {
			case "Str":
				return n.WithArgs(strings.ToUpper(n.Arg(0).(string))), true
			case "Emph":
				inner := n.Arg(0).(pandoctree.List)[0].(*pandoctree.Node)
				sawUppercased = inner.Arg(0) == "HI"
			}
		}
		return nil, false
	}, emph)
	if !sawUppercased {
		t.Fatalf("transform ran top-down; children were not rewritten first")
	}
}

func TestRewrite_MetaValues(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"pandoc-api-version":[1,22],"meta":{"b":{"t":"MetaBool","c":false},"a":{"t":"MetaBool","c":false}},"blocks":[]}`
	doc, err := ctx.ReadJSON([]byte(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	out := pandoctree.Rewrite(func(v pandoctree.Value) (pandoctree.Value, bool) {
		n, ok := v.(*pandoctree.Node)
		if !ok || n.Tag() != "MetaBool" {
			return nil, false
		}
		return n.WithArgs(true), true
	}, doc).(*pandoctree.Document)
	enc, err := ctx.WriteJSON(out)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := `{"pandoc-api-version":[1,22],"meta":{"b":{"t":"MetaBool","c":true},"a":{"t":"MetaBool","c":true}},"blocks":[]}`
	if string(enc) != want {
		t.Fatalf("metadata rewrite mismatch (key order must hold):\ngot:  %s\nwant: %s", enc, want)
	}
}
