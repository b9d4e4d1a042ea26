package docs

import "gitlab.com/tozd/go/errors"

// Entry is one label in the flat completion list.
type Entry struct {
	Label     string
	Canonical string
	IsSynonym bool
}

// Index holds the derived lookup tables over a dataset. Built once at
// startup, read-only afterwards.
type Index struct {
	byName    map[string]*Doc
	bySynonym map[string]string
	list      []Entry
}

// BuildIndex derives the name and synonym tables plus the deduplicated
// completion list. For duplicate labels the first occurrence wins, and the
// dedup of the completion list is global across the whole dataset, not per
// record.
func BuildIndex(ds *Dataset) (*Index, error) {
	if ds == nil || ds.Docs == nil {
		return nil, errors.New("documentation dataset has no docs collection")
	}

	ix := &Index{
		byName:    make(map[string]*Doc),
		bySynonym: make(map[string]string),
	}

	for i := range ds.Docs {
		doc := &ds.Docs[i]
		if !doc.Valid() {
			continue
		}
		label := doc.Label()
		if _, seen := ix.byName[label]; !seen {
			ix.byName[label] = doc
		}
		for _, syn := range doc.Synonyms {
			if syn == "" {
				continue
			}
			if _, seen := ix.bySynonym[syn]; !seen {
				ix.bySynonym[syn] = label
			}
		}
	}

	emitted := make(map[string]bool)
	for i := range ds.Docs {
		doc := &ds.Docs[i]
		if !doc.Valid() {
			continue
		}
		label := doc.Label()
		if !emitted[label] {
			emitted[label] = true
			ix.list = append(ix.list, Entry{Label: label, Canonical: label})
		}
		for _, syn := range doc.Synonyms {
			if syn == "" || emitted[syn] {
				continue
			}
			emitted[syn] = true
			ix.list = append(ix.list, Entry{Label: syn, Canonical: label, IsSynonym: true})
		}
	}

	return ix, nil
}

// ByName returns the record for a canonical label.
func (ix *Index) ByName(name string) (*Doc, bool) {
	doc, ok := ix.byName[name]
	return doc, ok
}

// Resolve looks a word up first as a canonical label, then as a synonym.
func (ix *Index) Resolve(word string) (doc *Doc, canonical string, isSynonym bool, ok bool) {
	if doc, ok := ix.byName[word]; ok {
		return doc, word, false, true
	}
	if canonical, ok := ix.bySynonym[word]; ok {
		if doc, ok := ix.byName[canonical]; ok {
			return doc, canonical, true, true
		}
	}
	return nil, "", false, false
}

// Completions returns the flat completion list in dataset order.
func (ix *Index) Completions() []Entry {
	return ix.list
}
