package grammar

import "strings"

func isOpen(r byte) bool  { return r == '[' || r == '(' || r == '{' }
func isClose(r byte) bool { return r == ']' || r == ')' || r == '}' }

// tokenize splits a production line into top-level tokens: bare words and
// balanced bracket groups. Nested brackets resolve by depth counting, not by
// fixed positions, so [[Block]] and [([Inline], [[Block]])] come out as
// single tokens.
func tokenize(line string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(line) {
		switch {
		case line[i] == ' ' || line[i] == '\t':
			i++
		case isOpen(line[i]):
			depth := 0
			j := i
			for ; j < len(line); j++ {
				if isOpen(line[j]) {
					depth++
				} else if isClose(line[j]) {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if depth != 0 {
				return nil, &SyntaxError{Line: line, Reason: "unbalanced brackets"}
			}
			toks = append(toks, line[i:j+1])
			i = j + 1
		case isClose(line[i]):
			return nil, &SyntaxError{Line: line, Reason: "unbalanced brackets"}
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' && !isOpen(line[j]) && !isClose(line[j]) {
				j++
			}
			toks = append(toks, line[i:j])
			i = j
		}
	}
	return toks, nil
}

// splitTop splits s at top-level occurrences of sep.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case isOpen(s[i]):
			depth++
		case isClose(s[i]):
			depth--
		case s[i] == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// ParseExpr parses a standalone type expression, e.g. "[Block]" or
// "(Map String MetaValue)".
func ParseExpr(s string) (Expr, error) { return parseExpr(s) }

// parseExpr parses one field-type token into an Expr.
func parseExpr(tok string) (Expr, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Expr{}, &SyntaxError{Line: tok, Reason: "empty type expression"}
	}
	switch tok[0] {
	case '[':
		if tok[len(tok)-1] != ']' {
			return Expr{}, &SyntaxError{Line: tok, Reason: "unbalanced brackets"}
		}
		elem, err := parseExpr(tok[1 : len(tok)-1])
		if err != nil {
			return Expr{}, err
		}
		return ListOf(elem), nil
	case '(':
		if tok[len(tok)-1] != ')' {
			return Expr{}, &SyntaxError{Line: tok, Reason: "unbalanced brackets"}
		}
		inner := tok[1 : len(tok)-1]
		parts := splitTop(inner, ',')
		if len(parts) > 1 {
			members := make([]Expr, 0, len(parts))
			for _, p := range parts {
				m, err := parseExpr(p)
				if err != nil {
					return Expr{}, err
				}
				members = append(members, m)
			}
			return TupleOf(members...), nil
		}
		words, err := tokenize(inner)
		if err != nil {
			return Expr{}, err
		}
		switch {
		case len(words) == 3 && words[0] == "Map":
			key, err := parseExpr(words[1])
			if err != nil {
				return Expr{}, err
			}
			value, err := parseExpr(words[2])
			if err != nil {
				return Expr{}, err
			}
			return MapOf(key, value), nil
		case len(words) == 2 && words[0] == "Maybe":
			elem, err := parseExpr(words[1])
			if err != nil {
				return Expr{}, err
			}
			return OptionOf(elem), nil
		case len(words) == 1:
			return parseExpr(words[0]) // redundant parentheses
		default:
			return Expr{}, &SyntaxError{Line: tok, Reason: "unrecognized type expression"}
		}
	default:
		if strings.ContainsAny(tok, "[](){},") {
			return Expr{}, &SyntaxError{Line: tok, Reason: "malformed type name"}
		}
		return NameOf(tok), nil
	}
}

// parseLine parses one production line into a constructor name plus fields.
// A single {a T, b U, ...} group declares a record constructor.
func parseLine(line string) (name string, fields []Field, record bool, err error) {
	toks, err := tokenize(line)
	if err != nil {
		return "", nil, false, err
	}
	if len(toks) == 0 {
		return "", nil, false, &SyntaxError{Line: line, Reason: "empty production"}
	}
	name = toks[0]
	if isOpen(name[0]) {
		return "", nil, false, &SyntaxError{Line: line, Reason: "production must start with a constructor name"}
	}
	rest := toks[1:]

	if len(rest) == 1 && rest[0][0] == '{' {
		inner := rest[0][1 : len(rest[0])-1]
		for _, part := range splitTop(inner, ',') {
			ftoks, err := tokenize(part)
			if err != nil {
				return "", nil, false, err
			}
			if len(ftoks) != 2 {
				return "", nil, false, &SyntaxError{Line: line, Reason: "record field must be `name Type`"}
			}
			ftype, err := parseExpr(ftoks[1])
			if err != nil {
				return "", nil, false, err
			}
			fields = append(fields, Field{Name: ftoks[0], Type: ftype})
		}
		if len(fields) == 0 {
			return "", nil, false, &SyntaxError{Line: line, Reason: "empty record block"}
		}
		return name, fields, true, nil
	}

	for _, tok := range rest {
		ftype, err := parseExpr(tok)
		if err != nil {
			return "", nil, false, err
		}
		fields = append(fields, Field{Type: ftype})
	}
	return name, fields, false, nil
}
