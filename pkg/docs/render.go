package docs

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxSeeAlso  = 5
	maxExamples = 6
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	seeRe     = regexp.MustCompile(`@see\s+([^\n*]+)`)
)

// Render formats one documentation record as markdown for hover and
// completion detail. displayName is how the user referred to the record; when
// it differs from the canonical label an alias line is emitted. Absent fields
// produce no output at all, never an empty section.
func Render(doc *Doc, displayName string) string {
	var sb strings.Builder
	label := doc.Label()

	if displayName != "" && displayName != label {
		fmt.Fprintf(&sb, "`%s` is an alias for `%s`\n\n", displayName, label)
	}

	if doc.Kind != "" {
		fmt.Fprintf(&sb, "### %s *(%s)*\n", label, doc.Kind)
	} else {
		fmt.Fprintf(&sb, "### %s\n", label)
	}

	if desc := stripTags(doc.Description); desc != "" {
		sb.WriteString("\n" + desc + "\n")
	}

	if len(doc.Params) > 0 {
		sb.WriteString("\n**Parameters:**\n")
		for _, param := range doc.Params {
			sb.WriteString("- `" + param.Name + "`")
			if t := param.Type.String(); t != "" {
				sb.WriteString(" (" + t + ")")
			}
			if d := stripTags(param.Description); d != "" {
				sb.WriteString(": " + d)
			}
			sb.WriteString("\n")
		}
	}

	if len(doc.Returns) > 0 {
		ret := doc.Returns[0]
		line := ret.Type.String()
		if d := stripTags(ret.Description); d != "" {
			if line != "" {
				line += ": " + d
			} else {
				line = d
			}
		}
		if line != "" {
			sb.WriteString("\n**Returns:** " + line + "\n")
		}
	}

	if syns := renderList(doc.Synonyms, displayName); syns != "" {
		sb.WriteString("\n**Synonyms:** " + syns + "\n")
	}

	if refs := seeAlso(doc.Comment); refs != "" {
		sb.WriteString("\n**See also:** " + refs + "\n")
	}

	for i, example := range doc.Examples {
		if i == maxExamples {
			break
		}
		sb.WriteString("\n```javascript\n" + strings.TrimRight(example, "\n") + "\n```\n")
	}

	return sb.String()
}

func (t TypeRef) String() string {
	return strings.Join(t.Names, " | ")
}

func stripTags(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// renderList deduplicates names, drops skip, and renders the rest as inline
// code.
func renderList(names []string, skip string) string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		if name == "" || name == skip || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, "`"+name+"`")
	}
	return strings.Join(out, ", ")
}

// seeAlso extracts @see references from a raw comment, capped at maxSeeAlso.
func seeAlso(comment string) string {
	matches := seeRe.FindAllStringSubmatch(comment, -1)
	var out []string
	for _, m := range matches {
		for _, ref := range strings.Split(m[1], ",") {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				continue
			}
			out = append(out, "`"+ref+"`")
			if len(out) == maxSeeAlso {
				return strings.Join(out, ", ")
			}
		}
	}
	return strings.Join(out, ", ")
}
