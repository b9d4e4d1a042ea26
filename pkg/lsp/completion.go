package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strudelsp/strudelsp/pkg/completion"
	"github.com/strudelsp/strudelsp/pkg/docs"
	"github.com/strudelsp/strudelsp/pkg/position"
)

// resolveData kinds carried on completion items for lazy documentation
// lookup.
const (
	resolveDoc = "doc"
	resolveSyn = "syn"
)

func (s *Server) completionRequest(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("uri", string(params.TextDocument.URI)).Msg("panic in completion handler")
			result = []protocol.CompletionItem{}
			err = nil
		}
	}()

	doc, ok := s.documents.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	offset := position.OffsetFor(doc.Content, position.Place{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	})
	explicit := params.Context != nil && params.Context.TriggerKind == protocol.CompletionTriggerKindInvoked

	res := s.engine.Complete(s.requestContext(), doc.Content, offset, explicit)
	if !res.Matched {
		return nil, nil
	}

	editRange := protocol.Range{
		Start: placeToPosition(position.PlaceFor(doc.Content, res.From)),
		End:   placeToPosition(position.PlaceFor(doc.Content, offset)),
	}

	items := make([]protocol.CompletionItem, 0, len(res.Options))
	for _, opt := range res.Options {
		item := protocol.CompletionItem{
			Label: opt.Label,
			Kind:  completionKind(opt.Kind),
			TextEdit: protocol.TextEdit{
				Range:   editRange,
				NewText: opt.InsertText(),
			},
		}
		if opt.FilterText != "" {
			item.FilterText = stringPtr(opt.FilterText)
		}
		if opt.CanonicalName != "" {
			kind := resolveDoc
			data := map[string]any{"type": kind, "name": opt.CanonicalName}
			if opt.IsSynonym {
				data["type"] = resolveSyn
				data["synonym"] = opt.Label
			}
			item.Data = data
		}
		items = append(items, item)
	}
	return items, nil
}

// completionResolve fills in documentation lazily, from the resolve data
// attached at completion time.
func (s *Server) completionResolve(ctx *glsp.Context, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	data, ok := item.Data.(map[string]any)
	if !ok {
		return item, nil
	}
	name, _ := data["name"].(string)
	doc, ok := s.docIndex.ByName(name)
	if !ok {
		return item, nil
	}

	display := name
	if kind, _ := data["type"].(string); kind == resolveSyn {
		if syn, _ := data["synonym"].(string); syn != "" {
			display = syn
		}
	}

	item.Documentation = protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: docs.Render(doc, display),
	}
	return item, nil
}

func placeToPosition(place position.Place) protocol.Position {
	return protocol.Position{Line: uint32(place.Line), Character: uint32(place.Character)}
}

func completionKind(kind string) *protocol.CompletionItemKind {
	var k protocol.CompletionItemKind
	switch kind {
	case completion.KindFunction:
		k = protocol.CompletionItemKindFunction
	case completion.KindSynonym:
		k = protocol.CompletionItemKindReference
	case completion.KindSound, completion.KindBank:
		k = protocol.CompletionItemKindValue
	case completion.KindChord, completion.KindScale, completion.KindMode, completion.KindPitch:
		k = protocol.CompletionItemKindConstant
	default:
		k = protocol.CompletionItemKindText
	}
	return &k
}
