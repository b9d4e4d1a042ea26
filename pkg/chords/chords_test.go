package chords_test

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/strudelsp/strudelsp/pkg/chords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRoot(t *testing.T) {
	tests := []struct {
		fragment string
		wantRoot string
		wantRest string
	}{
		{"C", "C", ""},
		{"Cmaj7", "C", "maj7"},
		{"C#maj7", "C#", "maj7"},
		{"Bbm7", "Bb", "m7"},
		{"maj7", "", "maj7"},
		{"", "", ""},
		{"c", "", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			root, rest := chords.SplitRoot(tt.fragment)
			assert.Equal(t, tt.wantRoot, root)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestLoaderEmbeddedDefault(t *testing.T) {
	loader := chords.NewLoader(afero.NewMemMapFs(), "")
	symbols, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, symbols, "")
	assert.Contains(t, symbols, "maj7")
	assert.Contains(t, symbols, "m7")
}

func TestLoaderFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/chords.json", []byte(`["","x7"]`), 0o644))

	loader := chords.NewLoader(fs, "/chords.json")
	symbols, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "x7"}, symbols)
}

func TestLoaderMemoizes(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/chords.json", []byte(`["a"]`), 0o644))
	loader := chords.NewLoader(fs, "/chords.json")

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	// mutating the file after the first load must not be observed
	require.NoError(t, afero.WriteFile(fs, "/chords.json", []byte(`["b"]`), 0o644))
	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestLoaderConcurrentFirstLoad(t *testing.T) {
	loader := chords.NewLoader(afero.NewMemMapFs(), "")

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			symbols, err := loader.Load(context.Background())
			assert.NoError(t, err)
			results[i] = symbols
		}(i)
	}
	wg.Wait()

	for i := 1; i < 8; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := chords.NewLoader(afero.NewMemMapFs(), "/missing.json")
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}
