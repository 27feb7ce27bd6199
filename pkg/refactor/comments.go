package refactor

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	markerPrefix = "/*COMMENT"
	markerSuffix = "*/"
)

// markerPattern matches plain and nonce-carrying markers alike.
var markerPattern = regexp.MustCompile(`/\*COMMENT(?:_\d+_)?\d+\*/`)

// Comment is a single comment lifted out of a source file. Index is the
// number embedded in Marker, the placeholder that replaced it.
type Comment struct {
	Index  int
	Text   string
	Marker string
}

// Marker returns the plain placeholder token for the comment with the given
// index. Markers are block comments themselves so they can never be mistaken
// for code.
func Marker(index int) string {
	return markerFor(markerPrefix, index)
}

func markerFor(base string, index int) string {
	return fmt.Sprintf("%s%d%s", base, index, markerSuffix)
}

// markerBase returns the marker prefix to use for src. Sources that already
// contain marker-shaped text get a "/*COMMENT_<n>_" prefix with the smallest
// n that does not occur in src, so no marker can collide with source text.
func markerBase(src string) string {
	if !strings.Contains(src, markerPrefix) {
		return markerPrefix
	}
	for n := 1; ; n++ {
		base := fmt.Sprintf("%s_%d_", markerPrefix, n)
		if !strings.Contains(src, base) {
			return base
		}
	}
}

// ExtractComments replaces every block and line comment in src with a
// numbered marker. Comments are numbered in the order they appear.
//
// Markers look like /*COMMENT<n>*/ unless src already contains that text,
// in which case a nonce is added to the prefix (see markerBase).
//
// A "//" directly preceded by ':' is not treated as a comment start so that
// scope-resolution tokens and URLs survive. Double-quoted string literals,
// char literals and """ text blocks are skipped so that comment delimiters
// inside them are left alone.
func ExtractComments(src string) (string, []Comment) {
	var (
		out      strings.Builder
		comments []Comment
	)
	out.Grow(len(src))

	base := markerBase(src)
	add := func(text string) {
		c := Comment{Index: len(comments), Text: text}
		c.Marker = markerFor(base, c.Index)
		comments = append(comments, c)
		out.WriteString(c.Marker)
	}

	i := 0
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], `"""`):
			end := strings.Index(src[i+3:], `"""`)
			if end < 0 {
				out.WriteString(src[i:])
				return out.String(), comments
			}
			end += i + 6
			out.WriteString(src[i:end])
			i = end
		case src[i] == '"' || src[i] == '\'':
			end := skipQuoted(src, i)
			out.WriteString(src[i:end])
			i = end
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				// Unterminated block comment: leave the rest untouched.
				out.WriteString(src[i:])
				return out.String(), comments
			}
			end += i + 4
			add(src[i:end])
			i = end
		case strings.HasPrefix(src[i:], "//") && (i == 0 || src[i-1] != ':'):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			add(src[i:end])
			i = end
		default:
			out.WriteByte(src[i])
			i++
		}
	}
	return out.String(), comments
}

// skipQuoted returns the offset just past the string or char literal that
// opens at src[start]; the literal closes on the same quote it opened with.
// Literals never span lines; an unterminated literal ends at the newline.
func skipQuoted(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return i
		}
	}
	return len(src)
}

// RestoreComments puts the original comments back in place of their markers
// in a single left-to-right pass. Each marker is replaced at its first
// occurrence only; restored comment text is never searched again, and
// marker-shaped text that does not belong to comments is left as is.
func RestoreComments(text string, comments []Comment) string {
	if len(comments) == 0 {
		return text
	}
	pending := make(map[string]string, len(comments))
	for _, c := range comments {
		m := c.Marker
		if m == "" {
			m = Marker(c.Index)
		}
		if _, dup := pending[m]; !dup {
			pending[m] = c.Text
		}
	}
	return markerPattern.ReplaceAllStringFunc(text, func(m string) string {
		t, ok := pending[m]
		if !ok {
			return m
		}
		delete(pending, m)
		return t
	})
}
