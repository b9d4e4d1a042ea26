package textscan_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/strudelsp/strudelsp/pkg/textscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsideString(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   bool
	}{
		{name: "empty", text: "", offset: 0, want: false},
		{name: "before any quote", text: `sound("bd")`, offset: 5, want: false},
		{name: "inside double quote", text: `sound("bd")`, offset: 8, want: true},
		{name: "after closing quote", text: `sound("bd")`, offset: 10, want: false},
		{name: "inside single quote", text: `sound('bd`, offset: 9, want: true},
		{name: "inside backtick", text: "sound(`bd", offset: 9, want: true},
		{name: "escaped double quote stays open", text: `sound("b\"`, offset: 10, want: true},
		{name: "escaped backslash then quote closes", text: `sound("b\\"`, offset: 11, want: false},
		{name: "other quote kind is inert", text: `sound("it's`, offset: 11, want: true},
		{name: "newline closes double quote", text: "sound(\"bd\nx", offset: 11, want: false},
		{name: "newline closes single quote", text: "sound('bd\nx", offset: 11, want: false},
		{name: "newline keeps backtick open", text: "sound(`bd\nx", offset: 11, want: true},
		{name: "reopened on next line", text: "\"a\n\"b", offset: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textscan.InsideString(tt.text, tt.offset))
		})
	}
}

func TestInsideStringTogglesPerQuote(t *testing.T) {
	text := `a "b" c "d`
	// false until the first quote opens, true inside, false after close,
	// true again inside the second literal
	assert.False(t, textscan.InsideString(text, 0))
	assert.True(t, textscan.InsideString(text, 3))
	assert.False(t, textscan.InsideString(text, 5))
	assert.True(t, textscan.InsideString(text, len(text)))
}

func TestMatchBefore(t *testing.T) {
	wordAfterQuote := regexp.MustCompile(`["'](\w*)`)

	t.Run("no match", func(t *testing.T) {
		m := textscan.MatchBefore("sound", 5, wordAfterQuote)
		assert.Nil(t, m)
	})

	t.Run("match must end at cursor", func(t *testing.T) {
		// the quote+word ends before the cursor
		m := textscan.MatchBefore(`sound("bd")`, 11, wordAfterQuote)
		assert.Nil(t, m)
	})

	t.Run("simple match at cursor", func(t *testing.T) {
		text := `sound("b`
		m := textscan.MatchBefore(text, len(text), wordAfterQuote)
		require.NotNil(t, m)
		assert.Equal(t, `"b`, m.Text)
		assert.Equal(t, 6, m.From)
		assert.Equal(t, 8, m.To)
		assert.Equal(t, []string{"b"}, m.Groups)
	})

	t.Run("rightmost occurrence wins", func(t *testing.T) {
		text := `bank("x") sound("b`
		m := textscan.MatchBefore(text, len(text), wordAfterQuote)
		require.NotNil(t, m)
		assert.Equal(t, `"b`, m.Text)
		assert.Equal(t, len(text)-2, m.From)
	})

	t.Run("zero width does not shadow a real match", func(t *testing.T) {
		word := regexp.MustCompile(`[\w$]*`)
		text := "sou"
		m := textscan.MatchBefore(text, 3, word)
		require.NotNil(t, m)
		assert.Equal(t, "sou", m.Text)
	})

	t.Run("zero width match when nothing else ends at cursor", func(t *testing.T) {
		word := regexp.MustCompile(`[\w$]*`)
		text := "sou "
		m := textscan.MatchBefore(text, 4, word)
		require.NotNil(t, m)
		assert.Equal(t, "", m.Text)
		assert.Equal(t, 4, m.From)
	})

	t.Run("lookbehind window is bounded", func(t *testing.T) {
		text := `sound("b` + strings.Repeat(" ", textscan.LookbehindLimit) + "x"
		m := textscan.MatchBefore(text, len(text), regexp.MustCompile(`sound\("(\w*)`))
		assert.Nil(t, m)
	})

	t.Run("offsets are absolute even with a shifted window", func(t *testing.T) {
		pad := strings.Repeat("y", textscan.LookbehindLimit)
		text := pad + `sound("b`
		m := textscan.MatchBefore(text, len(text), wordAfterQuote)
		require.NotNil(t, m)
		assert.Equal(t, len(pad)+6, m.From)
		assert.Equal(t, len(text), m.To)
	})
}

func TestWordAt(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		want     string
		wantFrom int
		wantOK   bool
	}{
		{name: "middle of word", text: "sound bank", offset: 2, want: "sound", wantFrom: 0, wantOK: true},
		{name: "end of word", text: "sound bank", offset: 5, want: "sound", wantFrom: 0, wantOK: true},
		{name: "second word", text: "sound bank", offset: 8, want: "bank", wantFrom: 6, wantOK: true},
		{name: "whitespace between words touches right word", text: "a  b", offset: 2, want: "", wantOK: false},
		{name: "no word", text: "  ((  ", offset: 3, want: "", wantOK: false},
		{name: "word on second line", text: "x\nsound", offset: 4, want: "sound", wantFrom: 2, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, from, _, ok := textscan.WordAt(tt.text, tt.offset)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, word)
				assert.Equal(t, tt.wantFrom, from)
			}
		})
	}
}
