package refactor

// Span is a half-open byte range [Start, End) in placeholder text.
type Span struct {
	Start int
	End   int
}

// Text returns the slice of text covered by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ScanBody walks text from start counting braces and returns the offset of
// the brace that brings the depth back to zero. Braces inside double-quoted
// strings are ignored; a quote preceded by a backslash does not toggle the
// string state. ok is false when the text ends before the braces balance.
func ScanBody(text string, start int) (end int, ok bool) {
	depth := 0
	opened := false
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if c == '"' && (i == 0 || text[i-1] != '\\') {
			inString = !inString
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
			opened = true
		case '}':
			depth--
			if opened && depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// FindSpans pairs every located method header with its balanced body. A
// header that sits inside a body already claimed by an earlier header is part
// of that body and is not reported on its own. Headers whose braces never
// balance are dropped.
func FindSpans(text string) []Span {
	var spans []Span
	for _, start := range LocateMethods(text) {
		if n := len(spans); n > 0 && spans[n-1].Contains(start) {
			continue
		}
		end, ok := ScanBody(text, start)
		if !ok {
			continue
		}
		spans = append(spans, Span{Start: start, End: end + 1})
	}
	return spans
}
