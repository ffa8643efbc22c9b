package pandoctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pandoctree/pandoctree/grammar"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeGrammarSyntax      = "grammar_syntax"      // malformed grammar line
	CodeUnknownType        = "unknown_type"        // type name absent from the registry
	CodeUnknownConstructor = "unknown_constructor" // "t" tag absent from the registry
	CodeShapeMismatch      = "shape_mismatch"      // JSON shape inconsistent with the descriptor
	CodeUnsupportedVersion = "unsupported_version" // no codec generation for the schema version
	CodeBadArity           = "bad_arity"           // constructor applied to the wrong argument count
)

// Issue represents a single codec or registry error.
type Issue struct {
	Path    string // JSON-pointer-ish location in the wire document (for example: /blocks/0/c).
	Code    string // One of the codes listed above.
	Name    string // Offending type or constructor name, when known.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s", it.Code)
		if it.Name != "" {
			fmt.Fprintf(b, " (%s)", it.Name)
		}
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func issuef(code, path, name, format string, args ...any) Issues {
	return Issues{Issue{Path: path, Code: code, Name: name, Message: fmt.Sprintf(format, args...)}}
}

// wrapGrammarErr lifts the grammar package's concrete error types into the
// Issues model, attaching the wire path when one is known.
func wrapGrammarErr(err error, path string) error {
	if err == nil {
		return nil
	}
	var syn *grammar.SyntaxError
	if errors.As(err, &syn) {
		return Issues{Issue{Path: path, Code: CodeGrammarSyntax, Message: syn.Reason, Cause: err}}
	}
	var unk *grammar.UnknownTypeError
	if errors.As(err, &unk) {
		return Issues{Issue{Path: path, Code: CodeUnknownType, Name: unk.Name, Message: "name not declared", Cause: err}}
	}
	return Issues{Issue{Path: path, Code: CodeGrammarSyntax, Message: err.Error(), Cause: err}}
}
