package changetracker

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

const (
	RedColor             = "\x1b[31m"
	GreenColor           = "\x1b[32m"
	YellowColor          = "\x1b[33m"
	BoldStyle            = "\x1b[1m"
	ResetColor           = "\x1b[0m"
	NumberOfContextLines = 3 // context lines shown around each change
)

// DiffStats counts changed lines
type DiffStats struct {
	Additions int
	Deletions int
}

type lineOp struct {
	kind diffmatchpatch.Operation
	text string
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// lineDiff diffs two texts line by line
func lineDiff(originalCode, newCode string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(originalCode, newCode)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var ops []lineOp
	for _, d := range diffs {
		for _, l := range splitLines(d.Text) {
			ops = append(ops, lineOp{kind: d.Type, text: l})
		}
	}
	return ops
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

// ComputeStats counts added and deleted lines between two texts
func ComputeStats(originalCode, newCode string) DiffStats {
	return calculateChanges(lineDiff(originalCode, newCode))
}

func calculateChanges(ops []lineOp) DiffStats {
	var s DiffStats
	for _, op := range ops {
		switch op.kind {
		case diffmatchpatch.DiffInsert:
			s.Additions++
		case diffmatchpatch.DiffDelete:
			s.Deletions++
		}
	}
	return s
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + ResetColor
}

// GetDiffStats returns a one-line summary such as "Foo.java +3 -1"
func GetDiffStats(filename, originalCode, newCode string, color bool) string {
	return statsLine(filename, ComputeStats(originalCode, newCode), color)
}

func statsLine(filename string, s DiffStats, color bool) string {
	var result strings.Builder
	if color {
		result.WriteString(BoldStyle)
	}
	result.WriteString(paint(color, YellowColor, filename))
	if s.Additions > 0 {
		result.WriteString(" " + paint(color, GreenColor, fmt.Sprintf("+%d", s.Additions)))
	}
	if s.Deletions > 0 {
		result.WriteString(" " + paint(color, RedColor, fmt.Sprintf("-%d", s.Deletions)))
	}
	result.WriteString("\n")
	return result.String()
}

// GetDiff returns the stats line followed by the changed lines with
// surrounding context. Unchanged input yields an empty string.
func GetDiff(filename, originalCode, newCode string, color bool) string {
	ops := lineDiff(originalCode, newCode)
	stats := calculateChanges(ops)
	if stats.Additions == 0 && stats.Deletions == 0 {
		return ""
	}

	show := make([]bool, len(ops))
	for i, op := range ops {
		if op.kind == diffmatchpatch.DiffEqual {
			continue
		}
		lo, hi := max(0, i-NumberOfContextLines), min(len(ops)-1, i+NumberOfContextLines)
		for j := lo; j <= hi; j++ {
			show[j] = true
		}
	}

	var result strings.Builder
	result.WriteString(statsLine(filename, stats, color))

	skipped := false
	for i, op := range ops {
		if !show[i] {
			skipped = true
			continue
		}
		if skipped {
			result.WriteString("...\n")
			skipped = false
		}
		switch op.kind {
		case diffmatchpatch.DiffDelete:
			result.WriteString(paint(color, RedColor, "- "+op.text) + "\n")
		case diffmatchpatch.DiffInsert:
			result.WriteString(paint(color, GreenColor, "+ "+op.text) + "\n")
		default:
			result.WriteString("  " + op.text + "\n")
		}
	}

	return result.String()
}

// PrintDiff writes the diff to w, colored when w is a terminal
func PrintDiff(w io.Writer, filename, originalCode, newCode string) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = IsTerminal(f)
	}
	diff := GetDiff(filename, originalCode, newCode, color)
	if diff == "" {
		fmt.Fprintf(w, "%s: no changes detected.\n", filename)
		return
	}
	fmt.Fprint(w, diff)
}
