package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pandoctree/pandoctree/grammar"
)

func TestDeclareSum(t *testing.T) {
	r := grammar.NewRegistry()
	err := r.DeclareSum("Inline", `
		Str String
		Emph [Inline]
		Space
	`)
	require.NoError(t, err)

	typ, err := r.Type("Inline")
	require.NoError(t, err)
	require.Equal(t, grammar.Data, typ.Kind)
	require.Len(t, typ.Constructors, 3)
	require.False(t, typ.SingleConstructor())

	str, err := r.Constructor("Str")
	require.NoError(t, err)
	require.Equal(t, 1, str.Arity())
	require.Same(t, typ, str.Parent)
	require.False(t, str.ListArg)

	emph, err := r.Constructor("Emph")
	require.NoError(t, err)
	require.True(t, emph.ListArg, "a lone list field marks the constructor list_arg")

	space, err := r.Constructor("Space")
	require.NoError(t, err)
	require.Equal(t, 0, space.Arity())
}

func TestDeclareRecord(t *testing.T) {
	r := grammar.NewRegistry()
	err := r.DeclareSum("Citation", `Citation {citationId String, citationMode CitationMode, citationHash Int}`)
	require.NoError(t, err)

	c, err := r.Constructor("Citation")
	require.NoError(t, err)
	require.True(t, c.Record)
	require.False(t, c.ListArg)
	require.Equal(t, 3, c.Arity())
	require.Equal(t, "citationId", c.Fields[0].Name)
	require.Equal(t, "citationMode", c.Fields[1].Name)
	require.Equal(t, grammar.Name, c.Fields[2].Type.Kind)
}

func TestDeclareNewtypeAndAlias(t *testing.T) {
	r := grammar.NewRegistry()
	require.NoError(t, r.DeclareNewtype("Format", `Format String`))
	require.NoError(t, r.DeclareAlias("Target", "(String, String)"))

	f, err := r.Type("Format")
	require.NoError(t, err)
	require.Equal(t, grammar.Newtype, f.Kind)
	require.True(t, f.SingleConstructor())

	a, err := r.Type("Target")
	require.NoError(t, err)
	require.Equal(t, grammar.Alias, a.Kind)
	require.Equal(t, grammar.Tuple, a.Aliased.Kind)

	err = r.DeclareNewtype("Pair", "A Int\nB Int")
	require.Error(t, err, "a newtype cannot have two constructors")
}

func TestRegistryLookups(t *testing.T) {
	r := grammar.NewRegistry()
	require.NoError(t, r.DeclareSum("QuoteType", "SingleQuote\nDoubleQuote"))

	require.True(t, r.Has("QuoteType"))
	require.True(t, r.Has("SingleQuote"))
	require.False(t, r.Has("TripleQuote"))

	d, err := r.Resolve("QuoteType")
	require.NoError(t, err)
	_, isType := d.(*grammar.Type)
	require.True(t, isType)

	d, err = r.Resolve("DoubleQuote")
	require.NoError(t, err)
	_, isCtor := d.(*grammar.Constructor)
	require.True(t, isCtor)

	_, err = r.Type("Nope")
	var unk *grammar.UnknownTypeError
	require.ErrorAs(t, err, &unk)
	require.Equal(t, "Nope", unk.Name)
}

func TestRedeclare(t *testing.T) {
	r := grammar.NewRegistry()
	require.NoError(t, r.DeclareSum("MathType", "DisplayMath\nInlineMath"))

	err := r.DeclareSum("MathType", "DisplayMath2")
	var re *grammar.RedeclaredError
	require.ErrorAs(t, err, &re)

	err = r.DeclareSum("Other", "DisplayMath")
	require.ErrorAs(t, err, &re, "constructor names share one namespace")
}

func TestReset(t *testing.T) {
	r := grammar.NewRegistry()
	require.NoError(t, r.DeclareSum("QuoteType", "SingleQuote\nDoubleQuote"))
	require.Equal(t, 1, r.Len())

	r.Reset()
	require.Equal(t, 0, r.Len())
	require.False(t, r.Has("QuoteType"))
	require.NoError(t, r.DeclareSum("QuoteType", "SingleQuote\nDoubleQuote"))
}

func TestPreserveTag(t *testing.T) {
	r := grammar.NewRegistry()
	require.NoError(t, r.DeclareSum("Wrapper", "Wrap Int"))

	typ, err := r.Type("Wrapper")
	require.NoError(t, err)
	require.True(t, typ.SingleConstructor())

	require.NoError(t, r.PreserveTag("Wrapper"))
	require.False(t, typ.SingleConstructor())

	require.Error(t, r.PreserveTag("Missing"))
}

func TestDeclareSum_SyntaxErrors(t *testing.T) {
	r := grammar.NewRegistry()
	var syn *grammar.SyntaxError

	err := r.DeclareSum("Bad", "Ctor [Unbalanced")
	require.ErrorAs(t, err, &syn)

	err = r.DeclareSum("Empty", "   \n  ")
	require.ErrorAs(t, err, &syn)

	err = r.DeclareSum("BadRecord", "Ctor {fieldOnly}")
	require.ErrorAs(t, err, &syn)
}
