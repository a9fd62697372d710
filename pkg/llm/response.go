package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseCompletion turns an untrusted model response into a Completion.
//
// Code fences are stripped first. A JSON object with a string "content"
// field yields an Envelope; anything else, including garbled JSON, is kept
// as RawText.
func ParseCompletion(raw string) (completion Completion) {
	cleaned := stripMarkdownCodeFences(strings.TrimSpace(raw))

	if content, ok := envelopeContent(cleaned); ok {
		completion = Completion{Kind: Envelope, Content: strings.TrimSpace(content)}
		return completion
	}

	// Prose around a JSON object, e.g. "Here is the letter: {...}".
	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first >= 0 && last > first {
		if content, ok := envelopeContent(cleaned[first : last+1]); ok {
			completion = Completion{Kind: Envelope, Content: strings.TrimSpace(content)}
			return completion
		}
	}

	completion = Completion{Kind: RawText, Content: strings.TrimSpace(cleaned)}
	return completion
}

func envelopeContent(text string) (content string, ok bool) {
	if !strings.HasPrefix(text, "{") || !gjson.Valid(text) {
		return content, ok
	}

	result := gjson.Get(text, "content")
	if result.Type != gjson.String {
		return content, ok
	}

	content = result.String()
	ok = true
	return content, ok
}

// stripMarkdownCodeFences removes a surrounding ``` fence, with or without a
// language tag, from a response.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text

	if len(cleaned) < 6 || !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") {
		return cleaned
	}

	// Skip the opening fence and its language tag.
	start := strings.IndexByte(cleaned, '\n')
	if start < 0 {
		return cleaned
	}
	start++

	end := len(cleaned) - 3
	if end < start {
		return cleaned
	}

	// Remove trailing whitespace before ```
	for end > start && (cleaned[end-1] == '\n' || cleaned[end-1] == ' ' || cleaned[end-1] == '\r') {
		end--
	}

	cleaned = cleaned[start:end]
	return cleaned
}
