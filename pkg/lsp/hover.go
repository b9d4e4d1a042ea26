package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strudelsp/strudelsp/pkg/docs"
	"github.com/strudelsp/strudelsp/pkg/position"
	"github.com/strudelsp/strudelsp/pkg/textscan"
)

func (s *Server) hover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("uri", string(params.TextDocument.URI)).Msg("panic in hover handler")
			result = nil
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

	word, from, to, ok := textscan.WordAt(doc.Content, offset)
	if !ok {
		return nil, nil
	}
	record, _, _, ok := s.docIndex.Resolve(word)
	if !ok {
		return nil, nil
	}

	wordRange := protocol.Range{
		Start: placeToPosition(position.PlaceFor(doc.Content, from)),
		End:   placeToPosition(position.PlaceFor(doc.Content, to)),
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: docs.Render(record, word),
		},
		Range: &wordRange,
	}, nil
}
