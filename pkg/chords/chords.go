// Package chords provides the chord-symbol vocabulary used by chord
// completion. The vocabulary is an external dataset loaded lazily on first
// use; the load is memoized so concurrent first requests share one load
// instead of racing.
package chords

import (
	"context"
	_ "embed"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

//go:embed symbols.json
var embeddedSymbols []byte

// PitchNames lists the recognized pitch spellings, two-character enharmonic
// spellings first so that longest-prefix matching sees "C#" before "C".
var PitchNames = []string{
	"Ab", "A#", "Bb", "B#", "Cb", "C#", "Db", "D#", "Eb", "E#",
	"Fb", "F#", "Gb", "G#",
	"A", "B", "C", "D", "E", "F", "G",
}

// SplitRoot splits a chord fragment into a recognized pitch root and the
// remaining symbol fragment. The root match is longest-first and case
// matters, mirroring how chord names are written.
func SplitRoot(fragment string) (root, rest string) {
	for _, pitch := range PitchNames {
		if strings.HasPrefix(fragment, pitch) {
			return pitch, fragment[len(pitch):]
		}
	}
	return "", fragment
}

// Loader lazily loads the chord-symbol vocabulary. With an empty path the
// embedded default vocabulary is used.
type Loader struct {
	fs   afero.Fs
	path string

	once    sync.Once
	symbols []string
	err     error
}

func NewLoader(fs afero.Fs, path string) *Loader {
	return &Loader{fs: fs, path: path}
}

// Load returns the chord symbols, reading them on first call only. Every
// caller after the first, concurrent or not, observes the same result.
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	l.once.Do(func() {
		l.symbols, l.err = l.read()
	})
	return l.symbols, l.err
}

func (l *Loader) read() ([]string, error) {
	raw := embeddedSymbols
	if l.path != "" {
		var err error
		raw, err = afero.ReadFile(l.fs, l.path)
		if err != nil {
			return nil, errors.Errorf("reading chord vocabulary: %w", err)
		}
	}

	var symbols []string
	if err := json.Unmarshal(raw, &symbols); err != nil {
		return nil, errors.Errorf("decoding chord vocabulary: %w", err)
	}
	return symbols, nil
}
