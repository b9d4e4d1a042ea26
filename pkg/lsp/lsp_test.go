package lsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strudelsp/strudelsp/pkg/completion"
	"github.com/strudelsp/strudelsp/pkg/diagnostic"
	"github.com/strudelsp/strudelsp/pkg/docs"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	index, err := docs.BuildIndex(&docs.Dataset{Docs: []docs.Doc{
		{Name: "sound", Kind: "function", Description: "play a sound"},
	}})
	require.NoError(t, err)
	return NewServer(Options{DocIndex: index})
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "file scheme with slashes", uri: "file:///tmp/pattern.js", want: "/tmp/pattern.js"},
		{name: "file scheme without slashes", uri: "file:/tmp/pattern.js", want: "/tmp/pattern.js"},
		{name: "plain path", uri: "/tmp/pattern.js", want: "/tmp/pattern.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeURI(tt.uri))
		})
	}
}

func TestDocumentManagerNormalizesOnAccess(t *testing.T) {
	m := NewDocumentManager()
	m.Store("file:///tmp/a.js", &Document{URI: "file:///tmp/a.js", Content: "s(\"bd\")"})

	doc, ok := m.Get("/tmp/a.js")
	require.True(t, ok)
	assert.Equal(t, "s(\"bd\")", doc.Content)

	m.Delete("file:///tmp/a.js")
	_, ok = m.Get("/tmp/a.js")
	assert.False(t, ok)
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := &glsp.Context{}
	uri := "file:///tmp/pattern.js"

	err := s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentUri(uri),
			LanguageID: "javascript",
			Version:    1,
			Text:       `sound("bd")`,
		},
	})
	require.NoError(t, err)

	snap, ok := s.snapshot(uri)
	require.True(t, ok)
	assert.Equal(t, `sound("bd")`, snap.Text)
	assert.Equal(t, int32(1), snap.Version)

	err = s.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: `sound("sd")`},
		},
	})
	require.NoError(t, err)

	snap, ok = s.snapshot(uri)
	require.True(t, ok)
	assert.Equal(t, `sound("sd")`, snap.Text)
	assert.Equal(t, int32(2), snap.Version)

	err = s.didClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	})
	require.NoError(t, err)

	_, ok = s.snapshot(uri)
	assert.False(t, ok)
}

func TestDidChangeLeavesPriorSnapshotIntact(t *testing.T) {
	s := newTestServer(t)
	ctx := &glsp.Context{}
	uri := "file:///tmp/pattern.js"

	err := s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     protocol.DocumentUri(uri),
			Version: 1,
			Text:    `sound("bd")`,
		},
	})
	require.NoError(t, err)

	// a validation in flight holds the document value it looked up
	held, ok := s.documents.Get(uri)
	require.True(t, ok)

	err = s.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: `sound("sd")`},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `sound("bd")`, held.Content)
	assert.Equal(t, int32(1), held.Version)

	snap, ok := s.snapshot(uri)
	require.True(t, ok)
	assert.Equal(t, `sound("sd")`, snap.Text)
	assert.Equal(t, int32(2), snap.Version)
}

func TestPublishDiagnosticsWithoutClientNotify(t *testing.T) {
	s := newTestServer(t)
	// a notify-less context, as before the transport is fully wired
	s.setClient(&glsp.Context{})

	assert.NotPanics(t, func() {
		s.publishDiagnostics("file:///tmp/pattern.js", nil)
	})
}

func TestPublishDiagnosticsNotifiesClient(t *testing.T) {
	s := newTestServer(t)

	var gotMethod string
	var gotParams any
	s.setClient(&glsp.Context{
		Notify: func(method string, params any) {
			gotMethod = method
			gotParams = params
		},
	})

	s.publishDiagnostics("file:///tmp/pattern.js", []diagnostic.SyntaxError{
		{Message: "unexpected token", Line: 2, Column: 5},
	})

	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, gotMethod)
	pub, ok := gotParams.(protocol.PublishDiagnosticsParams)
	require.True(t, ok)
	assert.Equal(t, protocol.DocumentUri("file:///tmp/pattern.js"), pub.URI)
	require.Len(t, pub.Diagnostics, 1)
	assert.Equal(t, "unexpected token", pub.Diagnostics[0].Message)
	assert.Equal(t, uint32(1), pub.Diagnostics[0].Range.Start.Line)
}

func TestSoundMapNotification(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	ctx := &glsp.Context{
		Method: MethodSoundMap,
		Params: json.RawMessage(`{"soundNames": ["bd", "sd", "hh_tr909"]}`),
	}
	_, validMethod, validParams, err := h.Handle(ctx)
	require.NoError(t, err)
	assert.True(t, validMethod)
	assert.True(t, validParams)

	idx := s.Samples().Current()
	assert.Equal(t, []string{"bd", "hh_tr909", "sd"}, idx.SoundNames)
	assert.Contains(t, idx.Banks, "tr909")
}

func TestSoundMapNotificationMalformedKeepsPrevious(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	_, _, _, err := h.Handle(&glsp.Context{
		Method: MethodSoundMap,
		Params: json.RawMessage(`{"soundNames": ["bd"]}`),
	})
	require.NoError(t, err)

	_, _, _, err = h.Handle(&glsp.Context{
		Method: MethodSoundMap,
		Params: json.RawMessage(`not json`),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bd"}, s.Samples().Current().SoundNames)
}

func TestCompletionKindMapping(t *testing.T) {
	tests := []struct {
		kind string
		want protocol.CompletionItemKind
	}{
		{kind: completion.KindFunction, want: protocol.CompletionItemKindFunction},
		{kind: completion.KindSynonym, want: protocol.CompletionItemKindReference},
		{kind: completion.KindSound, want: protocol.CompletionItemKindValue},
		{kind: completion.KindChord, want: protocol.CompletionItemKindConstant},
		{kind: completion.KindPitch, want: protocol.CompletionItemKindConstant},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got := completionKind(tt.kind)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}
