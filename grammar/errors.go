package grammar

import "fmt"

// SyntaxError reports a malformed grammar line: unbalanced brackets, an
// empty production, or a record block that does not parse.
type SyntaxError struct {
	Line   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("grammar: %s in %q", e.Reason, e.Line)
}

// UnknownTypeError reports a name with no entry in the registry.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("grammar: unknown type or constructor %q", e.Name)
}

// RedeclaredError reports a name declared twice in the same registry.
type RedeclaredError struct {
	Name string
}

func (e *RedeclaredError) Error() string {
	return fmt.Sprintf("grammar: %q already declared", e.Name)
}
