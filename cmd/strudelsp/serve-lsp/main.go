package serve_lsp

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	glspserver "github.com/tliron/glsp/server"
	"gitlab.com/tozd/go/errors"

	"github.com/strudelsp/strudelsp/pkg/chords"
	"github.com/strudelsp/strudelsp/pkg/diagnostic"
	"github.com/strudelsp/strudelsp/pkg/docs"
	"github.com/strudelsp/strudelsp/pkg/lsp"
)

type Handler struct {
	docsPath     string
	chordsPath   string
	soundMapPath string
	parserCmd    string
	debounce     time.Duration
	debug        bool
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server",
	}

	cmd.Flags().StringVar(&me.docsPath, "docs", "", "path to the generated doc dataset (required)")
	cmd.Flags().StringVar(&me.chordsPath, "chords", "", "path to a chord symbol list, overriding the embedded one")
	cmd.Flags().StringVar(&me.soundMapPath, "sound-map", "", "sound map file to load and watch for changes")
	cmd.Flags().StringVar(&me.parserCmd, "parser-cmd", "", "external parser command for syntax diagnostics")
	cmd.Flags().DurationVar(&me.debounce, "debounce", diagnostic.DefaultDelay, "diagnostic debounce delay")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	if err := cmd.MarkFlagRequired("docs"); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "lsp-server").
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	fs := afero.NewOsFs()

	ds, err := docs.Load(fs, me.docsPath)
	if err != nil {
		return errors.Errorf("loading doc dataset: %w", err)
	}
	index, err := docs.BuildIndex(ds)
	if err != nil {
		return errors.Errorf("indexing doc dataset: %w", err)
	}
	logger.Info().Int("docs", len(ds.Docs)).Str("path", me.docsPath).Msg("doc dataset loaded")

	var parser diagnostic.Parser
	if me.parserCmd != "" {
		fields := strings.Fields(me.parserCmd)
		parser = diagnostic.NewCommandParser(fields[0], fields[1:]...)
	}

	server := lsp.NewServer(lsp.Options{
		DocIndex: index,
		Chords:   chords.NewLoader(fs, me.chordsPath),
		Parser:   parser,
		Debounce: me.debounce,
		Logger:   logger,
	})

	if me.soundMapPath != "" {
		go func() {
			if err := lsp.WatchSoundMap(ctx, fs, me.soundMapPath, server.Samples()); err != nil {
				logger.Error().Err(err).Msg("sound map watcher stopped")
			}
		}()
	}

	instance := glspserver.NewServer(server.Handler(), "strudelsp", me.debug)

	if err := instance.RunStdio(); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
