// Package docs loads the pattern-function documentation dataset and derives
// the lookup tables used by completion and hover. The dataset is read once at
// startup and immutable afterwards; a malformed dataset is a fatal error
// because nothing useful can be served without it.
package docs

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// internalPrefix marks entries that exist in the dataset but are not part of
// the user-facing vocabulary.
const internalPrefix = "_"

// excludedTags keep an entry out of completion and hover entirely.
var excludedTags = map[string]bool{
	"noautocomplete": true,
	"internal":       true,
}

// Doc is one documentation record, keyed by its canonical label.
type Doc struct {
	Name        string   `json:"name"`
	Longname    string   `json:"longname"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Comment     string   `json:"comment"`
	Synonyms    []string `json:"synonyms"`
	Tags        []Tag    `json:"tags"`
	Params      []Param  `json:"params"`
	Returns     []Return `json:"returns"`
	Examples    []string `json:"examples"`
}

type Tag struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Param struct {
	Name        string  `json:"name"`
	Type        TypeRef `json:"type"`
	Description string  `json:"description"`
}

type TypeRef struct {
	Names []string `json:"names"`
}

type Return struct {
	Type        TypeRef `json:"type"`
	Description string  `json:"description"`
}

// Dataset is the raw on-disk shape of the documentation database.
type Dataset struct {
	Docs []Doc `json:"docs"`
}

// Label returns the canonical label of the record.
func (d *Doc) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Longname
}

// Valid reports whether the record belongs in the public vocabulary.
func (d *Doc) Valid() bool {
	label := d.Label()
	if label == "" || strings.HasPrefix(label, internalPrefix) {
		return false
	}
	if d.Kind == "package" {
		return false
	}
	for _, tag := range d.Tags {
		if excludedTags[strings.ToLower(tag.Title)] {
			return false
		}
	}
	return true
}

// Load reads and decodes the documentation dataset at path.
func Load(fs afero.Fs, path string) (*Dataset, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading documentation dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, errors.Errorf("decoding documentation dataset: %w", err)
	}
	if ds.Docs == nil {
		return nil, errors.New("documentation dataset has no docs collection")
	}
	return &ds, nil
}
