package load

import "strings"

// SplitValues splits the text strictly between the outer parentheses of a
// literal row into its values.
//
// Whitespace outside quoted literals is dropped and kept inside them. A
// doubled quote inside a literal is one quote character. A leading N before
// an opening quote is dropped. Commas inside literals do not split values.
// A bare NULL is returned as written. An unterminated literal runs to the
// end of the input. Blank input yields no values.
func SplitValues(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		values  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inQuote {
			if ch == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
					continue
				}
				inQuote = false
				continue
			}
			cur.WriteByte(ch)
			continue
		}
		switch {
		case ch == '\'':
			if t := cur.String(); t == "N" || t == "n" {
				cur.Reset()
			}
			inQuote = true
		case ch == ',':
			values = append(values, cur.String())
			cur.Reset()
		case isSpace(ch):
		default:
			cur.WriteByte(ch)
		}
	}
	return append(values, cur.String())
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
