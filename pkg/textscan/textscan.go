// Package textscan provides the low-level lexical scanning used by the
// completion and refactoring layers: string-context classification over raw
// (possibly invalid) source text, and regex matching anchored to end exactly
// at the cursor.
package textscan

import "regexp"

// LookbehindLimit bounds how far behind the cursor MatchBefore searches.
// Keeping it constant keeps worst-case latency independent of document size.
const LookbehindLimit = 8192

// Quote kinds tracked by InsideString.
const (
	quoteNone   = 0
	quoteSingle = '\''
	quoteDouble = '"'
	quoteBlock  = '`'
)

// InsideString reports whether offset lies inside an unterminated string
// literal. Single and double quotes cannot span lines, so a newline resets
// them; block (backtick) quotes survive newlines. A backslash escapes the
// following character. A quote of a different kind while one is open is a
// plain literal character.
func InsideString(text string, offset int) bool {
	if offset > len(text) {
		offset = len(text)
	}

	open := byte(quoteNone)
	escaped := false
	for i := 0; i < offset; i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case quoteSingle, quoteDouble, quoteBlock:
			if open == quoteNone {
				open = c
			} else if open == c {
				open = quoteNone
			}
		case '\n':
			if open == quoteSingle || open == quoteDouble {
				open = quoteNone
			}
		}
	}
	return open != quoteNone
}

// Match is a single pattern match located in the full document.
type Match struct {
	// From and To are byte offsets into the full text.
	From int
	To   int
	// Text is the matched text, Groups the submatches (empty string for a
	// group that did not participate).
	Text   string
	Groups []string
}

// MatchBefore finds the rightmost match of re that ends exactly at offset,
// searching at most LookbehindLimit bytes behind it. All matches in the
// window are visited in order and the last one whose end coincides with the
// cursor wins, so overlapping earlier candidates never shadow a later one.
// Returns nil when no match ends at the cursor.
func MatchBefore(text string, offset int, re *regexp.Regexp) *Match {
	if offset > len(text) {
		offset = len(text)
	}
	start := 0
	if offset > LookbehindLimit {
		start = offset - LookbehindLimit
	}
	window := text[start:offset]

	var found *Match
	pos := 0
	for pos <= len(window) {
		loc := re.FindStringSubmatchIndex(window[pos:])
		if loc == nil {
			break
		}
		from, to := pos+loc[0], pos+loc[1]
		// a zero-width match at the cursor must not shadow a real match
		// that already ends there
		if to == len(window) && (to > from || found == nil) {
			m := &Match{
				From: start + from,
				To:   start + to,
				Text: window[from:to],
			}
			for g := 1; g < len(loc)/2; g++ {
				if loc[2*g] < 0 {
					m.Groups = append(m.Groups, "")
				} else {
					m.Groups = append(m.Groups, window[pos+loc[2*g]:pos+loc[2*g+1]])
				}
			}
			found = m
		}
		// always make progress, even past zero-width matches
		if to == from {
			pos = from + 1
		} else {
			pos = to
		}
	}
	return found
}

var wordRe = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

// WordAt returns the word spanning offset together with its byte span, or
// false when the offset does not touch a word.
func WordAt(text string, offset int) (word string, from, to int, ok bool) {
	if offset > len(text) {
		offset = len(text)
	}
	lineStart := offset
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := offset
	for lineEnd < len(text) && text[lineEnd] != '\n' {
		lineEnd++
	}
	for _, loc := range wordRe.FindAllStringIndex(text[lineStart:lineEnd], -1) {
		from, to = lineStart+loc[0], lineStart+loc[1]
		if from <= offset && offset <= to {
			return text[from:to], from, to, true
		}
	}
	return "", 0, 0, false
}
