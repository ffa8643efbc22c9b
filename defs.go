package pandoctree

import "github.com/pandoctree/pandoctree/grammar"

// The built-in grammars mirror the pandoc-types packages this library can
// speak: 1.16 (last of the v1 wire format), 1.17 (object envelope,
// LineBlock), 1.21 (structured tables), 1.22 (Underline) and 1.23 (Figure,
// Null removed). The definitions are assembled per version so that a
// registry never carries descriptors from another generation.

type defsBuilder struct {
	reg *grammar.Registry
	err error
}

func (b *defsBuilder) sum(name, spec string) {
	if b.err == nil {
		b.err = b.reg.DeclareSum(name, spec)
	}
}

func (b *defsBuilder) newtype(name, spec string) {
	if b.err == nil {
		b.err = b.reg.DeclareNewtype(name, spec)
	}
}

func (b *defsBuilder) alias(name, expr string) {
	if b.err == nil {
		b.err = b.reg.DeclareAlias(name, expr)
	}
}

// loadDefinitions populates reg with the pandoc-types grammar for version v.
func loadDefinitions(reg *grammar.Registry, v Version) error {
	b := &defsBuilder{reg: reg}

	b.alias("Text", "String")
	b.alias("Attr", "(String, [String], [(String, String)])")
	b.alias("Target", "(String, String)")
	b.alias("ListAttributes", "(Int, ListNumberStyle, ListNumberDelim)")

	b.sum("Pandoc", `Pandoc Meta [Block]`)
	b.newtype("Meta", `Meta {unMeta (Map String MetaValue)}`)
	b.sum("MetaValue", `
		MetaMap (Map String MetaValue)
		MetaList [MetaValue]
		MetaBool Bool
		MetaString String
		MetaInlines [Inline]
		MetaBlocks [Block]
	`)

	blocks := `
		Plain [Inline]
		Para [Inline]
	`
	if v.AtLeast(1, 17) {
		blocks += "LineBlock [[Inline]]\n"
	}
	blocks += `
		CodeBlock Attr String
		RawBlock Format String
		BlockQuote [Block]
		OrderedList ListAttributes [[Block]]
		BulletList [[Block]]
		DefinitionList [([Inline], [[Block]])]
		Header Int Attr [Inline]
		HorizontalRule
	`
	if v.AtLeast(1, 21) {
		blocks += "Table Attr Caption [ColSpec] TableHead [TableBody] TableFoot\n"
	} else {
		blocks += "Table [Inline] [Alignment] [Double] [TableCell] [[TableCell]]\n"
	}
	if v.AtLeast(1, 23) {
		blocks += "Figure Attr Caption [Block]\n"
	}
	blocks += "Div Attr [Block]\n"
	if !v.AtLeast(1, 23) {
		blocks += "Null\n"
	}
	b.sum("Block", blocks)

	inlines := `
		Str String
		Emph [Inline]
	`
	if v.AtLeast(1, 22) {
		inlines += "Underline [Inline]\n"
	}
	inlines += `
		Strong [Inline]
		Strikeout [Inline]
		Superscript [Inline]
		Subscript [Inline]
		SmallCaps [Inline]
		Quoted QuoteType [Inline]
		Cite [Citation] [Inline]
		Code Attr String
		Space
	`
	if v.AtLeast(1, 16) {
		inlines += "SoftBreak\n"
	}
	inlines += `
		LineBreak
		Math MathType String
		RawInline Format String
	`
	if v.AtLeast(1, 16) {
		inlines += `
			Link Attr [Inline] Target
			Image Attr [Inline] Target
		`
	} else {
		inlines += `
			Link [Inline] Target
			Image [Inline] Target
		`
	}
	inlines += `
		Note [Block]
		Span Attr [Inline]
	`
	b.sum("Inline", inlines)

	b.sum("Alignment", `
		AlignLeft
		AlignRight
		AlignCenter
		AlignDefault
	`)
	b.sum("ListNumberStyle", `
		DefaultStyle
		Example
		Decimal
		LowerRoman
		UpperRoman
		LowerAlpha
		UpperAlpha
	`)
	b.sum("ListNumberDelim", `
		DefaultDelim
		Period
		OneParen
		TwoParens
	`)
	b.sum("QuoteType", `
		SingleQuote
		DoubleQuote
	`)
	b.sum("MathType", `
		DisplayMath
		InlineMath
	`)
	b.newtype("Format", `Format String`)
	b.sum("Citation", `Citation {citationId String, citationPrefix [Inline], citationSuffix [Inline], citationMode CitationMode, citationNoteNum Int, citationHash Int}`)
	b.sum("CitationMode", `
		AuthorInText
		SuppressAuthor
		NormalCitation
	`)

	if v.AtLeast(1, 21) {
		b.sum("Caption", `Caption (Maybe ShortCaption) [Block]`)
		b.alias("ShortCaption", "[Inline]")
		b.sum("Row", `Row Attr [Cell]`)
		b.sum("TableHead", `TableHead Attr [Row]`)
		b.sum("TableBody", `TableBody Attr RowHeadColumns [Row] [Row]`)
		b.sum("TableFoot", `TableFoot Attr [Row]`)
		b.sum("Cell", `Cell Attr Alignment RowSpan ColSpan [Block]`)
		b.sum("ColWidth", `
			ColWidth Double
			ColWidthDefault
		`)
		b.alias("ColSpec", "(Alignment, ColWidth)")
		b.newtype("RowHeadColumns", `RowHeadColumns Int`)
		b.newtype("RowSpan", `RowSpan Int`)
		b.newtype("ColSpan", `ColSpan Int`)
	} else {
		b.alias("TableCell", "[Block]")
	}

	return b.err
}
