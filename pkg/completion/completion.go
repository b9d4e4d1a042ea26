// Package completion implements context-sensitive completion over raw,
// possibly invalid source text. An ordered chain of handlers inspects the
// text immediately behind the cursor; the first handler with an opinion wins.
// Two "nothing" outcomes are kept distinct: a handler that does not apply
// declines (try the next one), while a handler that applies but has nothing
// to offer returns a matched result with zero options, which terminates the
// chain.
package completion

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/strudelsp/strudelsp/pkg/chords"
	"github.com/strudelsp/strudelsp/pkg/docs"
	"github.com/strudelsp/strudelsp/pkg/samples"
	"github.com/strudelsp/strudelsp/pkg/textscan"
)

// Option kinds, carried through to the protocol layer.
const (
	KindFunction = "function"
	KindSynonym  = "synonym"
	KindSound    = "sound"
	KindBank     = "bank"
	KindChord    = "chord"
	KindScale    = "scale"
	KindMode     = "mode"
	KindPitch    = "pitch"
)

// Option is a single completion suggestion. Apply, when set, overrides Label
// as the inserted text (chord symbols and multi-word scale names display one
// thing and insert another).
type Option struct {
	Label         string
	Kind          string
	Apply         string
	FilterText    string
	CanonicalName string
	IsSynonym     bool
}

// InsertText returns the text this option inserts.
func (o Option) InsertText() string {
	if o.Apply != "" {
		return o.Apply
	}
	return o.Label
}

// Result is the outcome of one handler (or of the whole chain). A zero
// Result means "no handler matched"; a matched Result with no options means
// "matched, deliberately nothing to suggest".
type Result struct {
	Matched bool
	// From is the offset where the replacement begins; the replacement
	// always ends at the request cursor.
	From    int
	Options []Option
}

// NoMatch is the "this handler does not apply" outcome.
func NoMatch() Result {
	return Result{}
}

// Matched builds an applying result. options may be nil for the terminal
// empty outcome.
func Matched(from int, options []Option) Result {
	return Result{Matched: true, From: from, Options: options}
}

// Context is the ephemeral per-request view handlers operate on.
type Context struct {
	Text     string
	Offset   int
	Explicit bool
	InString bool
}

// NewContext classifies the cursor's lexical context once, up front; every
// handler shares the verdict.
func NewContext(text string, offset int, explicit bool) *Context {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	return &Context{
		Text:     text,
		Offset:   offset,
		Explicit: explicit,
		InString: textscan.InsideString(text, offset),
	}
}

// MatchBefore finds the rightmost match of re ending exactly at the cursor.
func (c *Context) MatchBefore(re *regexp.Regexp) *textscan.Match {
	return textscan.MatchBefore(c.Text, c.Offset, re)
}

type handler func(ctx context.Context, cctx *Context) Result

// Engine owns the handler chain and its data sources. The sample cell is
// read at call time so a sample-map push is visible on the next keystroke.
type Engine struct {
	docs    *docs.Index
	samples *samples.Cell
	chords  *chords.Loader

	chain []handler
}

func NewEngine(docIndex *docs.Index, sampleCell *samples.Cell, chordLoader *chords.Loader) *Engine {
	e := &Engine{
		docs:    docIndex,
		samples: sampleCell,
		chords:  chordLoader,
	}
	// order is part of the observable behavior
	e.chain = []handler{
		e.completeSound,
		e.completeBank,
		e.completeChord,
		e.completeScale,
		e.completeMode,
		e.completeWord,
	}
	return e
}

// Complete runs the chain and returns the first handler's result.
func (e *Engine) Complete(ctx context.Context, text string, offset int, explicit bool) Result {
	cctx := NewContext(text, offset, explicit)
	for _, h := range e.chain {
		if result := h(ctx, cctx); result.Matched {
			zerolog.Ctx(ctx).Debug().
				Int("from", result.From).
				Int("options", len(result.Options)).
				Msg("completion handler matched")
			return result
		}
	}
	return NoMatch()
}
