package condfmt

import "strings"

func isOperator(c byte) bool {
	return c == '{' || c == '}' || c == '%'
}

// unescape is pass 1. A run of N backslashes directly before an operator
// becomes N/2 literal backslashes, followed by a literal operator when N is
// odd or by the operator itself when N is even. Backslash runs not followed
// by an operator are kept unchanged.
func unescape(src string, s sentinels) string {
	if strings.IndexByte(src, '\\') < 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		if src[i] != '\\' {
			b.WriteByte(src[i])
			i++
			continue
		}

		j := i
		for j < len(src) && src[j] == '\\' {
			j++
		}
		n := j - i

		if j == len(src) || !isOperator(src[j]) {
			b.WriteString(src[i:j])
			i = j
			continue
		}

		for range n / 2 {
			b.WriteRune(s.backslash)
		}
		if n%2 == 1 {
			b.WriteRune(s.literal(src[j]))
		} else {
			b.WriteByte(src[j])
		}
		i = j + 1
	}

	return b.String()
}
