package refactor

import "sort"

// Replacement pairs a method span with the text that should take its place.
// Original is the span's text at extraction time.
type Replacement struct {
	Span       Span
	Original   string
	Refactored string
}

// Splice substitutes every replacement into text by position. Replacements
// are applied from the highest offset down so earlier offsets stay valid,
// which also means two methods with identical bodies each receive their own
// result. Spans must not overlap.
func Splice(text string, reps []Replacement) string {
	if len(reps) == 0 {
		return text
	}
	ordered := make([]Replacement, len(reps))
	copy(ordered, reps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	out := text
	for _, r := range ordered {
		out = out[:r.Span.Start] + r.Refactored + out[r.Span.End:]
	}
	return out
}
