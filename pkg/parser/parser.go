package parser

import (
	"regexp"
	"strings"
)

const fence = "```"

// startOfBlockRegex matches an opening fence line such as ``` or ```java and
// captures the language identifier, if any.
var startOfBlockRegex = regexp.MustCompile("^[ \t]*```([\\w+#.-]*)[ \t]*$")

// isStartOfCodeBlock checks if a line marks the beginning of a code block and
// returns the detected language (lower-cased, possibly empty).
func isStartOfCodeBlock(line string) (bool, string) {
	matches := startOfBlockRegex.FindStringSubmatch(line)
	if matches == nil {
		return false, ""
	}
	return true, strings.ToLower(matches[1])
}

// StripCodeFence removes a leading code fence (with or without a language
// tag) and the last closing fence from an LLM response. Responses that do not
// start with a fence are returned unchanged.
func StripCodeFence(response string) string {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, fence) {
		return response
	}

	body := trimmed
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		if ok, _ := isStartOfCodeBlock(strings.TrimRight(trimmed[:nl], "\r")); ok {
			body = trimmed[nl+1:]
		} else {
			body = trimmed[len(fence):]
		}
	} else {
		body = trimmed[len(fence):]
	}

	if i := strings.LastIndex(body, fence); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}
