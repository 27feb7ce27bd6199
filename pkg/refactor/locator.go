package refactor

import (
	"regexp"
	"strings"
)

// methodSignature matches a Java-style method (or constructor) header up to
// and including its opening brace: modifiers, a return type that may carry
// generics and array brackets, the method name, a flat parameter list, an
// optional throws clause and '{'.
//
// This is a heuristic. Parameter lists that contain parentheses (annotations
// with arguments, lambdas as default values) are not matched, and return
// types using wildcards such as "? extends T" are missed.
var methodSignature = regexp.MustCompile(
	`(?m)^[ \t]*` +
		`(?:(?:public|private|protected|static|final|synchronized|abstract|native|transient)\s+)*` +
		`([a-zA-Z_][\w<>\[\],\s]*)` +
		`\s+(\w+)\s*` +
		`\(\s*[^()]*\s*\)` +
		`(?:\s*throws\s+[\w<>\[\],. ]+)?` +
		`\s*\{`)

// controlKeywords share the "word (...) {" shape with method headers and
// must never start a method.
var controlKeywords = map[string]bool{
	"if":     true,
	"else":   true,
	"while":  true,
	"for":    true,
	"switch": true,
	"catch":  true,
	"return": true,
	"new":    true,
	"case":   true,
}

// LocateMethods returns the offsets of candidate method headers in text, top
// to bottom. Offsets point at the first non-blank character of the header.
//
// Candidates nested inside another candidate's body are reported as well;
// FindSpans folds them into the enclosing body.
func LocateMethods(text string) []int {
	var starts []int
	pos := 0
	for pos < len(text) {
		loc := methodSignature.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		for start < len(text) && (text[start] == ' ' || text[start] == '\t') {
			start++
		}
		header := text[pos+loc[2] : pos+loc[3]]
		name := text[pos+loc[4] : pos+loc[5]]
		if !isControlHeader(header, name) {
			starts = append(starts, start)
		}
		pos = nextLine(text, start)
	}
	return starts
}

// isControlHeader reports whether the matched return type or name is really
// a control-flow statement such as "else if (x) {" or "return new Foo() {".
func isControlHeader(returnType, name string) bool {
	if controlKeywords[name] {
		return true
	}
	for _, word := range strings.FieldsFunc(returnType, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) {
		if controlKeywords[word] {
			return true
		}
	}
	return false
}

func nextLine(text string, from int) int {
	nl := strings.IndexByte(text[from:], '\n')
	if nl < 0 {
		return len(text)
	}
	return from + nl + 1
}
