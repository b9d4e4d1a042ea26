package completion

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/strudelsp/strudelsp/pkg/chords"
)

// quoteClass matches any of the three string delimiters.
const quoteClass = "[\"'\x60]"

// fragment delimiters inside a pattern string: whitespace and the
// mini-notation structure characters.
const fragmentDelims = " \t\n<>[]{}(),*/!@"

type callPatterns struct {
	// open matches `name(` with optional trailing space and nothing else,
	// i.e. the argument string has not been opened yet.
	open *regexp.Regexp
	// inString matches `name(` followed by an opened string literal whose
	// content runs up to the cursor.
	inString *regexp.Regexp
}

func compileCall(name string) callPatterns {
	return callPatterns{
		open:     regexp.MustCompile(`\b` + name + `\(\s*`),
		inString: regexp.MustCompile(`\b` + name + `\(\s*` + quoteClass + `([^"'\x60]*)`),
	}
}

var (
	soundCall = compileCall("sound")
	bankCall  = compileCall("bank")
	chordCall = compileCall("chord")
	scaleCall = compileCall("scale")
	modeCall  = compileCall("mode")

	wordPrefixRe = regexp.MustCompile(`[\w$]*`)
)

// stringArg resolves the current string argument of a call: the typed
// fragment (the token after the last delimiter) and the offset it starts at.
func stringArg(cctx *Context, patterns callPatterns) (fragment string, from int, ok bool) {
	m := cctx.MatchBefore(patterns.inString)
	if m == nil {
		return "", 0, false
	}
	content := m.Groups[0]
	fragment = content
	if i := strings.LastIndexAny(content, fragmentDelims); i >= 0 {
		fragment = content[i+1:]
	}
	return fragment, cctx.Offset - len(fragment), true
}

// completeSound suggests sample names inside sound("…").
func (e *Engine) completeSound(ctx context.Context, cctx *Context) Result {
	if m := cctx.MatchBefore(soundCall.open); m != nil {
		// no quote opened yet: matched, nothing to suggest
		return Matched(cctx.Offset, nil)
	}
	fragment, from, ok := stringArg(cctx, soundCall)
	if !ok || !cctx.InString {
		return NoMatch()
	}
	return Matched(from, filterNames(e.samples.Current().SoundNames, fragment, KindSound))
}

// completeBank suggests sample-bank prefixes inside bank("…").
func (e *Engine) completeBank(ctx context.Context, cctx *Context) Result {
	if m := cctx.MatchBefore(bankCall.open); m != nil {
		return Matched(cctx.Offset, nil)
	}
	fragment, from, ok := stringArg(cctx, bankCall)
	if !ok || !cctx.InString {
		return NoMatch()
	}
	return Matched(from, filterNames(e.samples.Current().Banks, fragment, KindBank))
}

// completeChord suggests chord names inside chord("…"). A recognized pitch
// root is split off the fragment and only quality/symbol completions are
// offered, with the root prefixed back onto every candidate; roots alone are
// never suggested.
func (e *Engine) completeChord(ctx context.Context, cctx *Context) Result {
	if m := cctx.MatchBefore(chordCall.open); m != nil {
		return Matched(cctx.Offset, nil)
	}
	fragment, from, ok := stringArg(cctx, chordCall)
	if !ok || !cctx.InString {
		return NoMatch()
	}

	symbols, err := e.chords.Load(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("chord vocabulary unavailable")
		return Matched(from, nil)
	}

	root, rest := chords.SplitRoot(fragment)
	var options []Option
	for _, symbol := range symbols {
		if !strings.HasPrefix(symbol, rest) {
			continue
		}
		label := root + symbol
		if label == "" {
			continue
		}
		options = append(options, Option{Label: label, Kind: KindChord, Apply: label})
	}
	return Matched(from, options)
}

// completeScale suggests pitch roots before the colon (explicit requests
// only) and scale names after it. Multi-word scale names insert their colon
// form.
func (e *Engine) completeScale(ctx context.Context, cctx *Context) Result {
	fragment, _, ok := stringArg(cctx, scaleCall)
	if !ok || !cctx.InString {
		return NoMatch()
	}

	before, after, hasColon := strings.Cut(fragment, ":")
	if !hasColon {
		if !cctx.Explicit {
			return NoMatch()
		}
		return Matched(cctx.Offset-len(before), filterNames(chords.PitchNames, before, KindPitch))
	}

	from := cctx.Offset - len(after)
	var options []Option
	for _, name := range scaleNames {
		colonForm := strings.ReplaceAll(name, " ", ":")
		if !hasFold(name, after) && !hasFold(colonForm, after) {
			continue
		}
		opt := Option{Label: name, Kind: KindScale}
		if colonForm != name {
			opt.Apply = colonForm
		}
		options = append(options, opt)
	}
	return Matched(from, options)
}

// completeMode suggests voicing-mode names before the colon (explicit
// requests only) and anchor pitches after it.
func (e *Engine) completeMode(ctx context.Context, cctx *Context) Result {
	fragment, _, ok := stringArg(cctx, modeCall)
	if !ok || !cctx.InString {
		return NoMatch()
	}

	before, after, hasColon := strings.Cut(fragment, ":")
	if !hasColon {
		if !cctx.Explicit {
			return NoMatch()
		}
		return Matched(cctx.Offset-len(before), filterNames(modeNames, before, KindMode))
	}
	return Matched(cctx.Offset-len(after), filterNames(chords.PitchNames, after, KindPitch))
}

// completeWord is the fallback handler for function names outside strings.
// A zero-length span on a passive request declines, so plain typing in code
// does not pop completions on every keystroke.
func (e *Engine) completeWord(ctx context.Context, cctx *Context) Result {
	if cctx.InString {
		return NoMatch()
	}
	m := cctx.MatchBefore(wordPrefixRe)
	if m == nil {
		return NoMatch()
	}
	if m.From == m.To && !cctx.Explicit {
		return NoMatch()
	}

	prefix := strings.ToLower(m.Text)
	var options []Option
	for _, entry := range e.docs.Completions() {
		if !strings.HasPrefix(strings.ToLower(entry.Label), prefix) {
			continue
		}
		kind := KindFunction
		if entry.IsSynonym {
			kind = KindSynonym
		}
		options = append(options, Option{
			Label:         entry.Label,
			Kind:          kind,
			FilterText:    entry.Label,
			CanonicalName: entry.Canonical,
			IsSynonym:     entry.IsSynonym,
		})
	}
	return Matched(m.From, options)
}

// filterNames returns the candidates with fragment as a case-insensitive
// prefix, sorted.
func filterNames(candidates []string, fragment, kind string) []Option {
	var options []Option
	for _, name := range candidates {
		if !hasFold(name, fragment) {
			continue
		}
		options = append(options, Option{Label: name, Kind: kind})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options
}

func hasFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
