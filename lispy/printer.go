package lispy

import (
	"fmt"
	"io"
	"strings"
)

var escapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'0':  0,
}

var unescapes = map[byte]string{
	'\a': `\a`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
	'\\': `\\`,
	'"':  `\"`,
	0:    `\0`,
}

// UnescapeString decodes backslash escapes. An unknown escape is kept
// as written.
func UnescapeString(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			if e, ok := escapes[s[i+1]]; ok {
				b.WriteByte(e)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// EscapeString is the inverse of UnescapeString for the characters
// that need it.
func EscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if e, ok := unescapes[s[i]]; ok {
			b.WriteString(e)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func Fprintln(w io.Writer, x Sexp) {
	fmt.Fprintln(w, x.SexpString())
}
