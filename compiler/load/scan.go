package load

import "strings"

// quoted reports, for every byte of s, whether it lies inside a string
// literal ('...'), a bracketed identifier ([...]) or a quoted identifier
// ("..."). Delimiters themselves are reported as quoted.
func quoted(s string) []bool {
	mask := make([]bool, len(s))
	var closer byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if closer != 0 {
			mask[i] = true
			if ch == closer {
				if closer != ']' && i+1 < len(s) && s[i+1] == closer {
					mask[i+1] = true
					i++
					continue
				}
				closer = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			closer = ch
			mask[i] = true
		case '[':
			closer = ']'
			mask[i] = true
		}
	}
	return mask
}

// stripComments removes -- line comments and /* */ block comments that are
// outside literals. Newlines are kept so the text keeps its line structure.
func stripComments(s string) string {
	if !strings.Contains(s, "--") && !strings.Contains(s, "/*") {
		return s
	}
	var (
		b      strings.Builder
		closer byte
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if closer != 0 {
			b.WriteByte(ch)
			if ch == closer {
				if closer != ']' && i+1 < len(s) && s[i+1] == closer {
					b.WriteByte(ch)
					i++
					continue
				}
				closer = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"':
			closer = ch
			b.WriteByte(ch)
		case ch == '[':
			closer = ']'
			b.WriteByte(ch)
		case strings.HasPrefix(s[i:], "--"):
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			block := s[i : i+2+end+2]
			b.WriteString(strings.Repeat("\n", strings.Count(block, "\n")))
			b.WriteByte(' ')
			i += len(block) - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// closingParen returns the index of the parenthesis closing the one opened
// just before start. Literals are skipped.
func closingParen(s string, start int) (int, bool) {
	mask := quoted(s)
	depth := 1
	for i := start; i < len(s); i++ {
		if mask[i] {
			continue
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// splitTopLevel splits s at commas that are outside literals and nested
// parentheses.
func splitTopLevel(s string) []string {
	mask := quoted(s)
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(s); i++ {
		if mask[i] {
			continue
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// blankLiterals replaces the content of every string literal in s with
// spaces so that keyword matching never sees text inside a literal.
// Identifiers are kept and lengths are preserved.
func blankLiterals(s string) string {
	mask := quoted(s)
	b := []byte(s)
	inLiteral := false
	for i := range b {
		if !mask[i] {
			inLiteral = false
			continue
		}
		if !inLiteral && (i == 0 || !mask[i-1]) {
			inLiteral = b[i] == '\''
		}
		if inLiteral {
			b[i] = ' '
		}
	}
	return string(b)
}

// unquoteIdent removes bracket, double-quote or backtick decoration from an
// identifier.
func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		switch {
		case s[0] == '[' && s[len(s)-1] == ']',
			s[0] == '"' && s[len(s)-1] == '"',
			s[0] == '`' && s[len(s)-1] == '`':
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isDecorated reports whether the identifier carried quoting decoration.
func isDecorated(s string) bool {
	return unquoteIdent(s) != strings.TrimSpace(s)
}

// firstOutside returns the first of the given match index pairs that starts
// outside a literal of s.
func firstOutside(s string, matches [][]int) []int {
	mask := quoted(s)
	for _, m := range matches {
		if m[0] < len(mask) && !mask[m[0]] {
			return m
		}
	}
	return nil
}
