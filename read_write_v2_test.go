package pandoctree_test

import (
	"strings"
	"testing"

	"github.com/pandoctree/pandoctree"
)

func mustContext(t *testing.T, version string) *pandoctree.Context {
	t.Helper()
	ctx, err := pandoctree.NewContext(version)
	if err != nil {
		t.Fatalf("NewContext(%q): %v", version, err)
	}
	return ctx
}

func TestReadWriteV2_EndToEnd(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"pandoc-api-version":[1,22],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":"hi"}]}]}`

	doc, err := ctx.ReadJSON([]byte(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Meta.Map().Len() != 0 {
		t.Fatalf("expected empty metadata, got %d entries", doc.Meta.Map().Len())
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(doc.Blocks))
	}
	para, ok := doc.Blocks[0].(*pandoctree.Node)
	if !ok || para.Tag() != "Para" {
		t.Fatalf("expected Para node, got %v", doc.Blocks[0])
	}
	inlines, ok := para.Arg(0).(pandoctree.List)
	if !ok || len(inlines) != 1 {
		t.Fatalf("expected one inline, got %v", para.Arg(0))
	}
	str, ok := inlines[0].(*pandoctree.Node)
	if !ok || str.Tag() != "Str" || str.Arg(0) != "hi" {
		t.Fatalf("expected Str(\"hi\"), got %v", inlines[0])
	}

	out, err := ctx.WriteJSON(doc)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if string(out) != data {
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_MetaKeyOrderPreserved(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"pandoc-api-version":[1,22],"meta":{"zebra":{"t":"MetaBool","c":true},"alpha":{"t":"MetaString","c":"a"},"mid":{"t":"MetaList","c":[{"t":"MetaString","c":"x"}]}},"blocks":[]}`

	doc, err := ctx.ReadJSON([]byte(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	keys := doc.Meta.Map().Keys()
	want := []string{"zebra", "alpha", "mid"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("key order lost: got %v, want %v", keys, want)
		}
	}
	out, err := ctx.WriteJSON(doc)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if string(out) != data {
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_SingleConstructorErasure(t *testing.T) {
	ctx := mustContext(t, "1.22")
	// Row has exactly one constructor: no "t" on the wire in either direction.
	data := `[["",[],[]],[]]`
	row, err := ctx.ReadJSONFragment([]byte(data), "Row")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Row): %v", err)
	}
	n, ok := row.(*pandoctree.Node)
	if !ok || n.Tag() != "Row" {
		t.Fatalf("expected Row node, got %v", row)
	}
	out, err := ctx.WriteJSONFragment(row)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Row): %v", err)
	}
	if strings.Contains(string(out), `"t"`) {
		t.Fatalf("single-constructor type leaked a tag: %s", out)
	}
	if string(out) != data {
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_TaggedColWidth(t *testing.T) {
	ctx := mustContext(t, "1.22")
	for _, data := range []string{
		`{"t":"ColWidth","c":0.5}`,
		`{"t":"ColWidthDefault"}`,
	} {
		v, err := ctx.ReadJSONFragment([]byte(data), "ColWidth")
		if err != nil {
			t.Fatalf("ReadJSONFragment(%s): %v", data, err)
		}
		out, err := ctx.WriteJSONFragment(v)
		if err != nil {
			t.Fatalf("WriteJSONFragment(%s): %v", data, err)
		}
		if string(out) != data {
			t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
		}
	}
}

func TestReadWriteV2_CaptionOption(t *testing.T) {
	ctx := mustContext(t, "1.22")

	v, err := ctx.ReadJSONFragment([]byte(`[null,[]]`), "Caption")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Caption): %v", err)
	}
	n := v.(*pandoctree.Node)
	opt, ok := n.Arg(0).(pandoctree.Option)
	if !ok || opt.IsSome() {
		t.Fatalf("expected empty option, got %v", n.Arg(0))
	}
	out, err := ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Caption): %v", err)
	}
	if string(out) != `[null,[]]` {
		t.Fatalf("empty caption round trip mismatch: %s", out)
	}

	data := `[[{"t":"Str","c":"short"}],[]]`
	v, err = ctx.ReadJSONFragment([]byte(data), "Caption")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Caption short): %v", err)
	}
	opt = v.(*pandoctree.Node).Arg(0).(pandoctree.Option)
	if !opt.IsSome() {
		t.Fatalf("expected a short caption, got empty option")
	}
	out, err = ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Caption short): %v", err)
	}
	if string(out) != data {
		t.Fatalf("short caption round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_ListArgErasure(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"t":"Para","c":[{"t":"Str","c":"hi"}]}`
	v, err := ctx.ReadJSONFragment([]byte(data), "Block")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Block): %v", err)
	}
	para := v.(*pandoctree.Node)
	// The payload is the bare inline list, not a singleton wrapper around it.
	inlines, ok := para.Arg(0).(pandoctree.List)
	if !ok || len(inlines) != 1 {
		t.Fatalf("list_arg payload mishandled: %v", para.Arg(0))
	}
	out, err := ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Block): %v", err)
	}
	if string(out) != data {
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_CitationRecord(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"citationId":"doe2020","citationPrefix":[],"citationSuffix":[],"citationMode":{"t":"NormalCitation"},"citationNoteNum":0,"citationHash":0}`
	v, err := ctx.ReadJSONFragment([]byte(data), "Citation")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Citation): %v", err)
	}
	n := v.(*pandoctree.Node)
	if n.Arg(0) != "doe2020" {
		t.Fatalf("citationId not decoded by name: %v", n.Arg(0))
	}
	out, err := ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Citation): %v", err)
	}
	if string(out) != data {
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadWriteV2_NullaryOmitsC(t *testing.T) {
	ctx := mustContext(t, "1.22")
	v, err := ctx.ReadJSONFragment([]byte(`{"t":"Space"}`), "Inline")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Space): %v", err)
	}
	out, err := ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Space): %v", err)
	}
	if string(out) != `{"t":"Space"}` {
		t.Fatalf("v2 nullary constructor should drop \"c\": %s", out)
	}
}

func TestReadV2_TableRoundTrip(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"t":"Table","c":[["",[],[]],[null,[]],[[{"t":"AlignDefault"},{"t":"ColWidthDefault"}]],[["",[],[]],[]],[[["",[],[]],0,[],[[["",[],[]],[[["",[],[]],{"t":"AlignDefault"},1,1,[{"t":"Plain","c":[{"t":"Str","c":"x"}]}]]]]]]],[["",[],[]],[]]]}`
	v, err := ctx.ReadJSONFragment([]byte(data), "Block")
	if err != nil {
		t.Fatalf("ReadJSONFragment(Table): %v", err)
	}
	out, err := ctx.WriteJSONFragment(v)
	if err != nil {
		t.Fatalf("WriteJSONFragment(Table): %v", err)
	}
	if string(out) != data {
		t.Fatalf("table round trip mismatch:\n in: %s\nout: %s", data, out)
	}
}

func TestReadV2_RejectsV1Envelope(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `[{"unMeta":{}},[{"t":"Para","c":[{"t":"Str","c":"hi"}]}]]`
	_, err := ctx.ReadJSON([]byte(data))
	if err == nil {
		t.Fatalf("expected error decoding a v1 envelope with v2 rules")
	}
	if !pandoctree.HasCode(err, pandoctree.CodeShapeMismatch) {
		t.Fatalf("expected shape_mismatch, got %v", err)
	}
}

func TestReadV2_UnknownConstructor(t *testing.T) {
	ctx := mustContext(t, "1.22")
	_, err := ctx.ReadJSONFragment([]byte(`{"t":"Nope","c":[]}`), "Inline")
	if err == nil {
		t.Fatalf("expected error for unknown constructor")
	}
	if !pandoctree.HasCode(err, pandoctree.CodeUnknownConstructor) {
		t.Fatalf("expected unknown_constructor, got %v", err)
	}
	iss, _ := pandoctree.AsIssues(err)
	if iss[0].Name != "Nope" {
		t.Fatalf("expected offending name in the issue, got %+v", iss[0])
	}
}

func TestReadV2_ErrorCarriesPath(t *testing.T) {
	ctx := mustContext(t, "1.22")
	data := `{"pandoc-api-version":[1,22],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":42}]}]}`
	_, err := ctx.ReadJSON([]byte(data))
	if err == nil {
		t.Fatalf("expected shape error for a numeric Str payload")
	}
	iss, ok := pandoctree.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if !strings.HasPrefix(iss[0].Path, "/blocks/0") {
		t.Fatalf("expected JSON path under /blocks/0, got %q", iss[0].Path)
	}
}

func TestV123_GrammarShifts(t *testing.T) {
	ctx := mustContext(t, "1.23")
	if _, err := ctx.Types.Constructor("Figure"); err != nil {
		t.Fatalf("1.23 should declare Figure: %v", err)
	}
	if _, err := ctx.Types.Constructor("Null"); err == nil {
		t.Fatalf("1.23 should not declare Null")
	}
	if _, err := ctx.ReadJSONFragment([]byte(`{"t":"Null"}`), "Block"); err == nil {
		t.Fatalf("decoding Null under 1.23 should fail")
	}
}
