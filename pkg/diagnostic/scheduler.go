package diagnostic

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long edits must settle before re-validation.
const DefaultDelay = 300 * time.Millisecond

// Snapshot is the document state a validation runs against.
type Snapshot struct {
	Text    string
	Version int32
}

// LookupFunc fetches the current state of a document at fire time. ok=false
// means the document is gone (closed) and the validation is dropped.
type LookupFunc func(uri string) (Snapshot, bool)

// PublishFunc delivers diagnostics for a document; a nil or empty slice
// clears previously published ones.
type PublishFunc func(uri string, errs []SyntaxError)

// Scheduler debounces per-document re-validation. Each edit re-arms the
// document's timer; when it fires, the version recorded at edit time is
// compared against the document's current version and a stale validation is
// discarded silently.
type Scheduler struct {
	parser  Parser
	delay   time.Duration
	lookup  LookupFunc
	publish PublishFunc

	mu   sync.Mutex
	docs map[string]func(func())
}

func NewScheduler(parser Parser, delay time.Duration, lookup LookupFunc, publish PublishFunc) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		parser:  parser,
		delay:   delay,
		lookup:  lookup,
		publish: publish,
		docs:    make(map[string]func(func())),
	}
}

// Schedule arms (or re-arms) the validation timer for uri. version is the
// document version the edit produced.
func (s *Scheduler) Schedule(ctx context.Context, uri string, version int32) {
	if s.parser == nil {
		return
	}

	s.mu.Lock()
	bounce, ok := s.docs[uri]
	if !ok {
		bounce = debounce.New(s.delay)
		s.docs[uri] = bounce
	}
	s.mu.Unlock()

	bounce(func() {
		s.validate(ctx, uri, version)
	})
}

// Forget drops the timer state for a closed document.
func (s *Scheduler) Forget(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *Scheduler) validate(ctx context.Context, uri string, version int32) {
	snap, ok := s.lookup(uri)
	if !ok {
		return
	}
	if snap.Version != version {
		// superseded by a newer edit before the timer fired
		return
	}

	syntaxErr, err := s.parser.Parse(ctx, snap.Text)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("uri", uri).Msg("syntax parser failed")
		return
	}

	if syntaxErr == nil {
		s.publish(uri, nil)
		return
	}
	s.publish(uri, []SyntaxError{*syntaxErr})
}
