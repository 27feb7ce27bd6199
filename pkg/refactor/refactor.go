package refactor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alantheprice/codebaseai/pkg/utils"
)

// ErrorPolicy decides what happens when the LLM fails on one method.
type ErrorPolicy string

const (
	// AbortFile stops processing the file at the first failure.
	AbortFile ErrorPolicy = "abort-file"
	// SkipMethod keeps the failed method's original body and carries on.
	SkipMethod ErrorPolicy = "skip-method"
)

// ParseErrorPolicy validates a policy name. An empty name means AbortFile.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AbortFile:
		return AbortFile, nil
	case SkipMethod:
		return SkipMethod, nil
	}
	return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, AbortFile, SkipMethod)
}

// ErrRefactorFailed wraps the LLM error that aborted a file.
var ErrRefactorFailed = errors.New("method refactor failed")

// Result describes one RefactorSource run.
type Result struct {
	Source     string // final text with comments restored
	Methods    int    // method bodies found
	Refactored int    // bodies whose text changed
	Failed     int    // bodies kept because the LLM call failed (SkipMethod only)
}

// Refactorer runs the extract, locate, refactor, splice and restore steps
// over one source text.
type Refactorer struct {
	invoker BodyRefactorer
	policy  ErrorPolicy
	logger  *utils.Logger
}

// NewRefactorer creates a refactorer. A nil logger uses the process logger.
func NewRefactorer(invoker BodyRefactorer, policy ErrorPolicy, logger *utils.Logger) *Refactorer {
	if policy == "" {
		policy = AbortFile
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Refactorer{invoker: invoker, policy: policy, logger: logger}
}

// RefactorSource rewrites every method body in src through the invoker and
// returns the new source. Text outside method bodies, comments included, is
// left byte-for-byte intact. Methods are processed one at a time, top to
// bottom.
func (r *Refactorer) RefactorSource(ctx context.Context, src string) (Result, error) {
	placeholder, comments := ExtractComments(src)
	spans := FindSpans(placeholder)
	r.logger.Debugf("found %d comments and %d methods", len(comments), len(spans))

	res := Result{Methods: len(spans)}
	reps := make([]Replacement, 0, len(spans))
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		body := span.Text(placeholder)
		r.logger.Debugf("refactoring method %d/%d at offset %d: %s", i+1, len(spans), span.Start,
			utils.TruncateString(firstLine(body), 80))

		refactored, err := r.invoker.RefactorBody(ctx, body)
		if err != nil {
			if r.policy == AbortFile {
				return Result{}, fmt.Errorf("%w: method %d: %w", ErrRefactorFailed, i+1, err)
			}
			r.logger.Warnf("keeping original body of method %d: %v", i+1, err)
			res.Failed++
			continue
		}
		if refactored != body {
			res.Refactored++
		}
		reps = append(reps, Replacement{Span: span, Original: body, Refactored: refactored})
	}

	res.Source = RestoreComments(Splice(placeholder, reps), comments)
	return res, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
