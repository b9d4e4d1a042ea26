// Package position converts between flat byte offsets and (line, character)
// places in a document. Every other component works on offsets; the editor
// protocol works on places, so both directions have to agree exactly.
package position

import "fmt"

// Place is a zero-based line and character position in a document.
type Place struct {
	Line      int
	Character int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open [Start, End) span expressed as places.
type Range struct {
	Start Place
	End   Place
}

// OffsetFor returns the byte offset of a place in text. The line is clamped
// to the available lines and the character to the length of that line, so an
// out-of-range place from the client maps to the nearest valid offset.
func OffsetFor(text string, place Place) int {
	offset := 0
	line := 0
	for line < place.Line && offset < len(text) {
		if text[offset] == '\n' {
			line++
		}
		offset++
	}
	if line < place.Line {
		return len(text)
	}

	col := place.Character
	for col > 0 && offset < len(text) && text[offset] != '\n' {
		offset++
		col--
	}
	return offset
}

// PlaceFor returns the zero-based line and character of a byte offset.
// Offsets past the end of the text are treated as the end of the text.
func PlaceFor(text string, offset int) Place {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	line := 0
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return Place{Line: line, Character: offset - lastNewline - 1}
}

// RangeFor converts an offset span into a place range.
func RangeFor(text string, start, end int) Range {
	return Range{Start: PlaceFor(text, start), End: PlaceFor(text, end)}
}
