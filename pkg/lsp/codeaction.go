package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strudelsp/strudelsp/pkg/position"
	"github.com/strudelsp/strudelsp/pkg/quotefix"
)

// quote-conversion targets, offered in this order
var conversionTargets = []struct {
	quote byte
	title string
}{
	{quotefix.Block, "Convert to template literal"},
	{quotefix.Double, "Convert to double quotes"},
}

func (s *Server) codeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("uri", string(params.TextDocument.URI)).Msg("panic in code action handler")
			result = nil
			err = nil
		}
	}()

	doc, ok := s.documents.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	start := position.OffsetFor(doc.Content, position.Place{
		Line:      int(params.Range.Start.Line),
		Character: int(params.Range.Start.Character),
	})
	end := position.OffsetFor(doc.Content, position.Place{
		Line:      int(params.Range.End.Line),
		Character: int(params.Range.End.Character),
	})

	lit := quotefix.FindEnclosing(doc.Content, start, end)
	if lit == nil {
		return nil, nil
	}

	literalRange := protocol.Range{
		Start: placeToPosition(position.PlaceFor(doc.Content, lit.Open)),
		End:   placeToPosition(position.PlaceFor(doc.Content, lit.Close+1)),
	}

	var actions []protocol.CodeAction
	for _, target := range conversionTargets {
		if target.quote == lit.Quote {
			continue
		}
		replacement, ok := quotefix.Convert(doc.Content, *lit, target.quote)
		if !ok {
			// lossy conversion, drop silently
			continue
		}
		kind := protocol.CodeActionKindRefactorRewrite
		actions = append(actions, protocol.CodeAction{
			Title: target.title,
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					params.TextDocument.URI: {{Range: literalRange, NewText: replacement}},
				},
			},
		})
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}
