// Package diagnostic re-validates documents after edits settle. The syntax
// parser itself is an external collaborator; this package owns scheduling,
// staleness guarding, and mapping a parse failure into a single diagnostic.
package diagnostic

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"
	"gitlab.com/tozd/go/errors"
)

// SyntaxError is the parser's report of the first failure in a document. A
// parse failure is steady-state input while the user is mid-edit, not an
// exceptional condition.
type SyntaxError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Parser validates a document. A nil *SyntaxError with a nil error means the
// document parsed cleanly; a non-nil error means the parser itself failed
// and no diagnostics should be published either way.
type Parser interface {
	Parse(ctx context.Context, text string) (*SyntaxError, error)
}

// CommandParser adapts an external parser subprocess: the document is fed on
// stdin, and a failed parse is reported as {"message","line","column"} JSON
// on stdout alongside a non-zero exit.
type CommandParser struct {
	command string
	args    []string
}

func NewCommandParser(command string, args ...string) *CommandParser {
	return &CommandParser{command: command, args: args}
}

func (p *CommandParser) Parse(ctx context.Context, text string) (*SyntaxError, error) {
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = strings.NewReader(text)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err == nil {
		return nil, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, errors.Errorf("running syntax parser: %w", err)
	}

	var syntaxErr SyntaxError
	if jsonErr := json.Unmarshal(stdout.Bytes(), &syntaxErr); jsonErr != nil {
		return nil, errors.Errorf("decoding syntax parser output: %w", jsonErr)
	}
	return &syntaxErr, nil
}
