package lsp

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	"gitlab.com/tozd/go/errors"

	"github.com/strudelsp/strudelsp/pkg/samples"
)

// handleSoundMap ingests a sample-map push from the client. A malformed
// payload is logged and ignored; the previous index stays in place.
func (s *Server) handleSoundMap(ctx *glsp.Context) {
	names, ok := samples.ParsePayload(ctx.Params)
	if !ok {
		s.logger.Warn().Msg("ignoring malformed sound map notification")
		return
	}
	s.samples.Replace(samples.NewIndex(names))
	s.logger.Info().Int("sounds", len(names)).Msg("sample map replaced")
}

// WatchSoundMap ingests a sound-map JSON file and re-ingests it whenever it
// changes, feeding the same whole-value replacement path as the
// notification. Blocks until ctx is done.
func WatchSoundMap(ctx context.Context, fs afero.Fs, path string, cell *samples.Cell) error {
	logger := zerolog.Ctx(ctx)

	ingest := func() {
		raw, err := afero.ReadFile(fs, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("cannot read sound map file")
			return
		}
		names, ok := samples.ParsePayload(raw)
		if !ok {
			logger.Warn().Str("path", path).Msg("ignoring malformed sound map file")
			return
		}
		cell.Replace(samples.NewIndex(names))
		logger.Info().Int("sounds", len(names)).Str("path", path).Msg("sample map replaced from file")
	}
	ingest()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating sound map watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory: editors replace files rather than write in place
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Errorf("watching sound map directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				ingest()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("sound map watcher error")
		}
	}
}
