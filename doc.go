// Package pandoctree models pandoc documents as trees built from the
// pandoc-types algebraic grammar, and moves them losslessly to and from the
// pandoc JSON wire format.
//
// The package provides:
//
//   - A grammar-driven registry of type and constructor descriptors,
//     declared once per pandoc-types version (see the grammar subpackage)
//   - A uniform tree value model (Node, List, Tuple, ordered Map, Option,
//     Meta, Document) with pre-order iteration and paths
//   - Both generations of the JSON codec: the pre-1.17 [meta, blocks]
//     envelope and the 1.17+ object envelope, selected by the configured
//     pandoc-types version
//   - A bottom-up Rewrite combinator for whole-tree transformation
//
// Design policy:
//   - Codec calls read their version and registry from an explicit Context;
//     a narrow process-wide default exists for single-session callers.
//   - Wire names resolve through registry lookup only; nothing interprets
//     tag strings as code.
//   - Errors surface as Issues: a code, the offending type or constructor
//     name, and the JSON path of the mismatch.
//
// Typical usage:
//
//	ctx, err := pandoctree.NewContext("1.22.2")
//	doc, err := ctx.ReadJSON(data)
//	doc = pandoctree.Rewrite(emphToStrong, doc).(*pandoctree.Document)
//	out, err := ctx.WriteJSON(doc)
package pandoctree
