// Package pipeline walks a source tree and writes a refactored copy of every
// stale file to a mirrored output tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alantheprice/codebaseai/pkg/changetracker"
	"github.com/alantheprice/codebaseai/pkg/common"
	"github.com/alantheprice/codebaseai/pkg/filediscovery"
	"github.com/alantheprice/codebaseai/pkg/refactor"
	"github.com/alantheprice/codebaseai/pkg/utils"
)

// State is the processing state of one file
type State string

const (
	StatePending    State = "pending"
	StateSkipped    State = "skipped"
	StateProcessing State = "processing"
	StateWritten    State = "written"
	StateFormatted  State = "formatted"
	StateFailed     State = "failed"
)

// SourceRefactorer rewrites one source text
type SourceRefactorer interface {
	RefactorSource(ctx context.Context, src string) (refactor.Result, error)
}

// SourceDocument is one input file as read
type SourceDocument struct {
	Path    string
	Text    string
	ModTime time.Time
}

// FileOutcome records what happened to one file
type FileOutcome struct {
	Source  string
	Output  string
	State   State
	Result  refactor.Result
	Err     error
	Elapsed time.Duration
}

// Summary aggregates a run
type Summary struct {
	Processed  int // files sent through the refactorer
	Skipped    int // up to date or empty
	Failed     int // refactor or write failed, nothing written
	Written    int // output files written
	Formatted  int // written files the formatter accepted
	Methods    int
	Refactored int
}

func (s *Summary) add(o FileOutcome) {
	switch o.State {
	case StateSkipped:
		s.Skipped++
		return
	case StateFailed:
		s.Processed++
		s.Failed++
		return
	case StateFormatted:
		s.Formatted++
	}
	s.Processed++
	s.Written++
	s.Methods += o.Result.Methods
	s.Refactored += o.Result.Refactored
}

// String renders the summary for the final log line
func (s Summary) String() string {
	return fmt.Sprintf("%d processed, %d written, %d skipped, %d failed (%d/%d methods changed)",
		s.Processed, s.Written, s.Skipped, s.Failed, s.Refactored, s.Methods)
}

// Options configures a pipeline
type Options struct {
	SourceDir string
	OutputDir string
	Walk      filediscovery.WalkOptions
	ShowDiff  bool
	DiffOut   io.Writer // defaults to stdout
}

// Pipeline processes a source tree one file at a time
type Pipeline struct {
	opts       Options
	refactorer SourceRefactorer
	formatter  *common.Formatter
	logger     *utils.Logger
}

// New creates a pipeline. formatter may be nil to disable formatting.
func New(opts Options, refactorer SourceRefactorer, formatter *common.Formatter, logger *utils.Logger) *Pipeline {
	if logger == nil {
		logger = utils.GetLogger()
	}
	if opts.DiffOut == nil {
		opts.DiffOut = os.Stdout
	}
	return &Pipeline{
		opts:       opts,
		refactorer: refactorer,
		formatter:  formatter,
		logger:     logger,
	}
}

// Run visits every matching file under the source directory. Per-file
// failures are logged and counted. Only a walk error or cancellation stops
// the run early.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	outDir, _ := filepath.Abs(p.opts.OutputDir)

	err := filediscovery.Walk(p.opts.SourceDir, p.opts.Walk, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// an output tree nested in the source tree is not input
		if abs, aerr := filepath.Abs(path); aerr == nil && strings.HasPrefix(abs, outDir+string(filepath.Separator)) {
			return nil
		}
		outcome := p.ProcessFile(ctx, path)
		if errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded) {
			return outcome.Err
		}
		summary.add(outcome)
		return nil
	})
	if err != nil {
		return summary, err
	}

	p.logger.Logf("Refactoring completed: %s", summary)
	return summary, nil
}

// OutputPath maps a source path to its location in the output tree
func (p *Pipeline) OutputPath(srcPath string) (string, error) {
	rel, err := filepath.Rel(p.opts.SourceDir, srcPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", srcPath, p.opts.SourceDir)
	}
	return filepath.Join(p.opts.OutputDir, rel), nil
}

// IsStale reports whether src needs processing: the output is missing or
// src was modified after it. Equal timestamps count as up to date.
func IsStale(srcPath, outPath string) (bool, error) {
	src, err := os.Stat(srcPath)
	if err != nil {
		return false, err
	}
	out, err := os.Stat(outPath)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return src.ModTime().After(out.ModTime()), nil
}

func readDocument(path string) (SourceDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceDocument{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceDocument{}, err
	}
	return SourceDocument{Path: path, Text: string(data), ModTime: info.ModTime()}, nil
}

// ProcessFile runs one file through the state machine
// pending -> skipped | processing -> written -> formatted.
func (p *Pipeline) ProcessFile(ctx context.Context, srcPath string) FileOutcome {
	start := time.Now()
	outcome := FileOutcome{Source: srcPath, State: StatePending}
	fail := func(err error) FileOutcome {
		outcome.State = StateFailed
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		p.logger.Errorf("Failed to refactor %s: %v", srcPath, err)
		return outcome
	}

	outPath, err := p.OutputPath(srcPath)
	if err != nil {
		return fail(err)
	}
	outcome.Output = outPath

	stale, err := IsStale(srcPath, outPath)
	if err != nil {
		return fail(err)
	}
	if !stale {
		p.logger.Logf("Skipping %s as it is not newer than the existing output.", srcPath)
		outcome.State = StateSkipped
		return outcome
	}

	doc, err := readDocument(srcPath)
	if err != nil {
		return fail(err)
	}
	if utils.IsEmptyString(doc.Text) {
		p.logger.Logf("Skipping %s as it is empty.", srcPath)
		outcome.State = StateSkipped
		return outcome
	}

	p.logger.Logf("Refactoring %s.", srcPath)
	outcome.State = StateProcessing
	res, err := p.refactorer.RefactorSource(ctx, doc.Text)
	if err != nil {
		return fail(err)
	}
	outcome.Result = res

	if err := writeFileAtomic(outPath, []byte(res.Source)); err != nil {
		return fail(fmt.Errorf("write %s: %w", outPath, err))
	}
	outcome.State = StateWritten
	p.logger.Logf("Refactored code written to: %s", outPath)

	rel, _ := filepath.Rel(p.opts.SourceDir, srcPath)
	p.logger.Debugf("%s", strings.TrimSpace(changetracker.GetDiffStats(rel, doc.Text, res.Source, false)))
	if p.opts.ShowDiff {
		changetracker.PrintDiff(p.opts.DiffOut, rel, doc.Text, res.Source)
	}

	if fr := p.formatter.Format(ctx, outPath); fr != nil && fr.Success {
		outcome.State = StateFormatted
	}

	outcome.Elapsed = time.Since(start)
	return outcome
}

// writeFileAtomic writes data next to path and renames it into place so an
// interrupted run never leaves a truncated output file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".codebaseai-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
