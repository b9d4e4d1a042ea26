// Package lsp binds the language intelligence to the Language Server
// Protocol. Transport and message framing come from glsp; this package owns
// document lifecycle, request dispatch, and the custom sample-map
// notification.
package lsp

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strudelsp/strudelsp/pkg/chords"
	"github.com/strudelsp/strudelsp/pkg/completion"
	"github.com/strudelsp/strudelsp/pkg/diagnostic"
	"github.com/strudelsp/strudelsp/pkg/docs"
	"github.com/strudelsp/strudelsp/pkg/samples"
)

const serverName = "strudelsp"

// MethodSoundMap is the custom notification carrying the runtime's sample
// map. The payload is {"soundNames": [...]} or an object keyed by sound
// name.
const MethodSoundMap = "strudel/soundMap"

// Options wires a Server. DocIndex is mandatory; everything else has a
// working zero value.
type Options struct {
	DocIndex *docs.Index
	Samples  *samples.Cell
	Chords   *chords.Loader
	Parser   diagnostic.Parser
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Server is one LSP server instance.
type Server struct {
	id        string
	logger    zerolog.Logger
	documents *DocumentManager
	docIndex  *docs.Index
	samples   *samples.Cell
	engine    *completion.Engine
	scheduler *diagnostic.Scheduler

	clientMu sync.RWMutex
	client   *glsp.Context
}

func NewServer(opts Options) *Server {
	if opts.Samples == nil {
		opts.Samples = samples.NewCell()
	}
	if opts.Chords == nil {
		opts.Chords = chords.NewLoader(nil, "")
	}

	s := &Server{
		id:        xid.New().String(),
		logger:    opts.Logger,
		documents: NewDocumentManager(),
		docIndex:  opts.DocIndex,
		samples:   opts.Samples,
		engine:    completion.NewEngine(opts.DocIndex, opts.Samples, opts.Chords),
	}
	s.scheduler = diagnostic.NewScheduler(opts.Parser, opts.Debounce, s.snapshot, s.publishDiagnostics)
	return s
}

// Samples exposes the live sample cell, for the sound-map file watcher.
func (s *Server) Samples() *samples.Cell {
	return s.samples
}

// Handler returns the glsp handler serving this instance. Standard methods
// are dispatched through the generated protocol handler; the sample-map
// notification is intercepted first.
func (s *Server) Handler() glsp.Handler {
	return &handler{
		server: s,
		protocol: protocol.Handler{
			Initialize:             s.initialize,
			Initialized:            s.initialized,
			Shutdown:               s.shutdown,
			SetTrace:               s.setTrace,
			TextDocumentDidOpen:    s.didOpen,
			TextDocumentDidChange:  s.didChange,
			TextDocumentDidClose:   s.didClose,
			TextDocumentCompletion: s.completionRequest,
			CompletionItemResolve:  s.completionResolve,
			TextDocumentHover:      s.hover,
			TextDocumentCodeAction: s.codeAction,
		},
	}
}

type handler struct {
	server   *Server
	protocol protocol.Handler
}

func (h *handler) Handle(ctx *glsp.Context) (result any, validMethod bool, validParams bool, err error) {
	if ctx.Method == MethodSoundMap {
		h.server.handleSoundMap(ctx)
		return nil, true, true, nil
	}
	return h.protocol.Handle(ctx)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Info().
		Str("server_id", s.id).
		Interface("client", params.ClientInfo).
		Msg("initializing")
	s.setClient(ctx)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{`"`, "'", "`", ":"},
			ResolveProvider:   boolPtr(true),
		},
		HoverProvider:      &protocol.HoverOptions{},
		CodeActionProvider: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: stringPtr("1.0.0"),
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Debug().Msg("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.logger.Info().Msg("shutting down")
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.setClient(ctx)
	uri := string(params.TextDocument.URI)
	doc := &Document{
		URI:        uri,
		LanguageID: string(params.TextDocument.LanguageID),
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	}
	s.documents.Store(uri, doc)
	s.logger.Debug().Str("uri", uri).Int("length", len(doc.Content)).Msg("document opened")

	s.scheduler.Schedule(s.requestContext(), uri, doc.Version)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.setClient(ctx)
	uri := string(params.TextDocument.URI)

	// stored documents are immutable: build a fresh value so the debounce
	// timer goroutine can keep reading the old one
	next := &Document{URI: uri, Version: params.TextDocument.Version}
	if prev, ok := s.documents.Get(uri); ok {
		next.LanguageID = prev.LanguageID
		next.Content = prev.Content
	}

	// full document sync
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			next.Content = whole.Text
		}
	}
	s.documents.Store(uri, next)

	s.scheduler.Schedule(s.requestContext(), uri, next.Version)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.documents.Delete(uri)
	s.scheduler.Forget(uri)
	// clear any published diagnostics
	s.publishDiagnostics(uri, nil)
	s.logger.Debug().Str("uri", uri).Msg("document closed")
	return nil
}

// snapshot is the scheduler's view of the current document state.
func (s *Server) snapshot(uri string) (diagnostic.Snapshot, bool) {
	doc, ok := s.documents.Get(uri)
	if !ok {
		return diagnostic.Snapshot{}, false
	}
	return diagnostic.Snapshot{Text: doc.Content, Version: doc.Version}, true
}

func (s *Server) setClient(ctx *glsp.Context) {
	s.clientMu.Lock()
	s.client = ctx
	s.clientMu.Unlock()
}

func (s *Server) publishDiagnostics(uri string, errs []diagnostic.SyntaxError) {
	s.clientMu.RLock()
	client := s.client
	s.clientMu.RUnlock()
	if client == nil || client.Notify == nil {
		return
	}

	diags := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		line := e.Line - 1
		if line < 0 {
			line = 0
		}
		col := e.Column
		if col < 0 {
			col = 0
		}
		pos := protocol.Position{Line: uint32(line), Character: uint32(col)}
		severity := protocol.DiagnosticSeverityError
		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: &severity,
			Source:   stringPtr(serverName),
			Message:  e.Message,
		})
	}

	client.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diags,
	})
}

// requestContext carries the server logger into work that may outlive the
// current message, like a debounce timer firing later.
func (s *Server) requestContext() context.Context {
	return s.logger.WithContext(context.Background())
}

func boolPtr(v bool) *bool {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
