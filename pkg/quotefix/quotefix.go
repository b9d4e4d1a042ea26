// Package quotefix locates the string literal enclosing a selection and
// rewrites its content for quote-style conversion. All escape reasoning uses
// trailing-backslash parity on the raw source text; there is no parse tree.
package quotefix

import (
	"regexp"
	"strings"
)

// Quote kinds.
const (
	Single byte = '\''
	Double byte = '"'
	Block  byte = '`'
)

// Literal is a located string literal, delimiters included.
type Literal struct {
	// Open and Close are the offsets of the delimiters.
	Open  int
	Close int
	Quote byte
}

// Content returns the raw source text between the delimiters.
func (l Literal) Content(text string) string {
	return text[l.Open+1 : l.Close]
}

func isQuote(c byte) bool {
	return c == Single || c == Double || c == Block
}

// escaped reports whether the character at i is escaped: an odd number of
// consecutive backslashes immediately before it.
func escaped(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// FindEnclosing locates the literal around the selection [start, end]. The
// opening delimiter is searched leftwards on the selection's line, the
// closing delimiter rightwards from the selection end. Returns nil when no
// enclosing literal exists or the selection extends outside one.
func FindEnclosing(text string, start, end int) *Literal {
	if start < 0 || end > len(text) || start > end {
		return nil
	}

	open := -1
	for i := start - 1; i >= 0; i-- {
		if text[i] == '\n' {
			return nil
		}
		if isQuote(text[i]) && !escaped(text, i) {
			open = i
			break
		}
	}
	if open < 0 {
		return nil
	}
	quote := text[open]

	for i := end; i < len(text); i++ {
		if text[i] == '\n' && quote != Block {
			return nil
		}
		if text[i] == quote && !escaped(text, i) && i >= open+1 {
			return &Literal{Open: open, Close: i, Quote: quote}
		}
	}
	return nil
}

var escapedQuoteRe = regexp.MustCompile("\\\\([\"'\x60])")

// Rewrite re-encodes literal content for a different quote kind: quote
// escapes are normalized away, then backslashes and the target delimiter are
// re-escaped; block targets also escape interpolation starts. Returns false
// when the content cannot be represented (a raw newline in a single-line
// quote kind).
func Rewrite(content string, target byte) (string, bool) {
	if target != Block && strings.ContainsRune(content, '\n') {
		return "", false
	}

	out := escapedQuoteRe.ReplaceAllString(content, "$1")
	out = strings.ReplaceAll(out, `\`, `\\`)
	out = strings.ReplaceAll(out, string(target), `\`+string(target))
	if target == Block {
		out = strings.ReplaceAll(out, "${", `\${`)
	}
	return out, true
}

// Convert produces the replacement source text for the full literal span
// (delimiters included) in the target quote kind.
func Convert(text string, lit Literal, target byte) (string, bool) {
	rewritten, ok := Rewrite(lit.Content(text), target)
	if !ok {
		return "", false
	}
	return string(target) + rewritten + string(target), true
}
