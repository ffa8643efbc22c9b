package pandocbin

import (
	"path/filepath"
	"strings"
)

// formatByExt maps file extensions to pandoc format names, for callers that
// infer the format from a path.
var formatByExt = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".mkd":      "markdown",
	".txt":      "markdown",
	".json":     "json",
	".html":     "html",
	".htm":      "html",
	".xhtml":    "html",
	".tex":      "latex",
	".latex":    "latex",
	".rst":      "rst",
	".org":      "org",
	".docx":     "docx",
	".odt":      "odt",
	".epub":     "epub",
	".ipynb":    "ipynb",
	".csv":      "csv",
	".rtf":      "rtf",
	".typ":      "typst",
	".texi":     "texinfo",
	".textile":  "textile",
	".opml":     "opml",
	".wiki":     "mediawiki",
	".dokuwiki": "dokuwiki",
	".db":       "docbook",
	".fb2":      "fb2",
	".icml":     "icml",
	".tei":      "tei",
	".ms":       "ms",
	".adoc":     "asciidoc",
	".asciidoc": "asciidoc",
	".pdf":      "pdf",
	".pptx":     "pptx",
}

// extByFormat is the preferred output extension per format.
var extByFormat = map[string]string{
	"markdown":  ".md",
	"json":      ".json",
	"html":      ".html",
	"html5":     ".html",
	"latex":     ".tex",
	"rst":       ".rst",
	"org":       ".org",
	"docx":      ".docx",
	"odt":       ".odt",
	"epub":      ".epub",
	"epub2":     ".epub",
	"epub3":     ".epub",
	"ipynb":     ".ipynb",
	"csv":       ".csv",
	"rtf":       ".rtf",
	"typst":     ".typ",
	"texinfo":   ".texi",
	"textile":   ".textile",
	"opml":      ".opml",
	"mediawiki": ".wiki",
	"dokuwiki":  ".dokuwiki",
	"docbook":   ".db",
	"fb2":       ".fb2",
	"icml":      ".icml",
	"tei":       ".tei",
	"ms":        ".ms",
	"asciidoc":  ".adoc",
	"pdf":       ".pdf",
	"pptx":      ".pptx",
	"man":       ".1",
	"plain":     ".txt",
}

// binaryOutput lists the formats pandoc can only write to a file, never to
// stdout as text.
var binaryOutput = map[string]bool{
	"docx":  true,
	"odt":   true,
	"epub":  true,
	"epub2": true,
	"epub3": true,
	"pdf":   true,
	"pptx":  true,
}

// FormatFor infers the pandoc format name from a file path. Manual page
// section suffixes (.1 through .9) resolve to man; an unknown extension
// falls back to markdown, pandoc's own default.
func FormatFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if len(ext) == 2 && ext[1] >= '1' && ext[1] <= '9' {
		return "man"
	}
	if f, ok := formatByExt[ext]; ok {
		return f
	}
	return "markdown"
}

// ExtFor returns the conventional file extension for a pandoc format.
func ExtFor(format string) string {
	if ext, ok := extByFormat[format]; ok {
		return ext
	}
	return ".txt"
}

// BinaryOutput reports whether format must be written through a file.
func BinaryOutput(format string) bool { return binaryOutput[format] }
