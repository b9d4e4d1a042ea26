// Package samples tracks the live sound-sample vocabulary. The set of sound
// names is pushed by the client whenever the runtime's sample map changes, so
// the index is process-wide mutable state replaced wholesale, never patched.
package samples

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Index is one immutable snapshot of the sample vocabulary.
type Index struct {
	SoundNames []string
	Banks      []string
}

// NewIndex builds an index from a set of sound names. Names are sorted and
// banks derived by splitting each name on the first underscore; a name with
// no suffix contributes no bank.
func NewIndex(soundNames []string) Index {
	names := append([]string(nil), soundNames...)
	sort.Strings(names)
	return Index{SoundNames: names, Banks: DeriveBanks(names)}
}

// DeriveBanks collects the deduplicated, sorted set of underscore prefixes.
func DeriveBanks(names []string) []string {
	seen := make(map[string]bool)
	var banks []string
	for _, name := range names {
		prefix, suffix, found := strings.Cut(name, "_")
		if !found || prefix == "" || suffix == "" {
			continue
		}
		if !seen[prefix] {
			seen[prefix] = true
			banks = append(banks, prefix)
		}
	}
	sort.Strings(banks)
	return banks
}

// ParsePayload decodes a sample-map notification payload. Both supported
// shapes are accepted: {"soundNames": [...]} and a plain object keyed by
// sound name. Returns false for anything else; a malformed payload is the
// caller's cue to ignore the notification.
func ParsePayload(raw []byte) ([]string, bool) {
	var wrapped struct {
		SoundNames []string `json:"soundNames"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.SoundNames != nil {
		return wrapped.SoundNames, true
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err == nil && len(keyed) > 0 {
		names := make([]string, 0, len(keyed))
		for name := range keyed {
			if name == "soundNames" {
				continue
			}
			names = append(names, name)
		}
		if len(names) > 0 {
			return names, true
		}
	}
	return nil, false
}
