package ai

import (
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z0-9]*)[ \t]*\r?\n?(.*?)```")

// ExtractJSON recovers a JSON payload from raw model output. Models wrap their
// answer in Markdown code fences or surround it with prose more often than not,
// so the recovery order is: fenced block, outermost brace span, original text.
// Only a bare fence or a json-tagged one counts; a fence carrying any other
// language tag falls through to the brace span.
// The returned string is not guaranteed to be valid JSON; callers parse it and
// surface their own error when it is not.
func ExtractJSON(text string) string {
	if match := fencedBlockPattern.FindStringSubmatch(text); match != nil {
		if tag := match[1]; tag == "" || tag == "json" {
			return strings.TrimSpace(match[2])
		}
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last < first {
		return strings.TrimSpace(text)
	}

	return text[first : last+1]
}
