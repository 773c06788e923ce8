package story

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedStory is a title/content pair recovered from raw model output.
type ParsedStory struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var (
	leadJSONFenceRe = regexp.MustCompile("(?i)^```json\\s*")
	leadFenceRe     = regexp.MustCompile("(?i)^```\\s*")
	trailFenceRe    = regexp.MustCompile("\\s*```$")
	braceLineRe     = regexp.MustCompile(`(?m)^\s*\{\s*$`)

	// jsonObjectRe locates a {"title": "...", "content": "..."} shaped
	// substring so stray prose around the object does not break parsing.
	jsonObjectRe = regexp.MustCompile(`(?s)\{\s*"title"\s*:\s*"[^"]+"\s*,\s*"content"\s*:\s*".*"\s*\}`)

	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)

	titleFieldRe   = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)
	contentFieldRe = regexp.MustCompile(`(?s)"content"\s*:\s*"(.+)".*\}`)

	emphasisRe = regexp.MustCompile(`\*([^*]+)\*`)
)

// Parse extracts a title/content pair from raw model output. It never
// fails: the strict JSON path is attempted first, and any shortfall falls
// through to a regex-based recovery that always produces a result.
func Parse(raw string) ParsedStory {
	if parsed, ok := parseStrict(raw); ok {
		return parsed
	}
	return parseFallback(raw)
}

// parseStrict strips markdown fencing, normalizes a stray brace-only
// opening line, locates the JSON object, and parses it.
func parseStrict(raw string) (ParsedStory, bool) {
	clean := strings.TrimSpace(raw)
	clean = leadJSONFenceRe.ReplaceAllString(clean, "")
	clean = leadFenceRe.ReplaceAllString(clean, "")
	clean = trailFenceRe.ReplaceAllString(clean, "")
	clean = braceLineRe.ReplaceAllString(clean, "{")
	clean = strings.TrimSpace(clean)

	if match := jsonObjectRe.FindString(clean); match != "" {
		clean = match
	}

	var parsed ParsedStory
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return ParsedStory{}, false
	}
	if parsed.Title == "" || parsed.Content == "" {
		return ParsedStory{}, false
	}

	content := unescapeAndStrip(parsed.Content)
	content = manyNewlinesRe.ReplaceAllString(content, "\n\n")
	return ParsedStory{
		Title:   strings.TrimSpace(parsed.Title),
		Content: strings.TrimSpace(content),
	}, true
}

// parseFallback recovers the field values directly from malformed output.
// When no title matches it uses the fixed placeholder; when no content
// matches the entire raw text becomes the content.
func parseFallback(raw string) ParsedStory {
	title := "Untitled Story"
	if m := titleFieldRe.FindStringSubmatch(raw); m != nil {
		title = m[1]
	}

	content := raw
	if m := contentFieldRe.FindStringSubmatch(raw); m != nil {
		content = m[1]
	}

	return ParsedStory{
		Title:   title,
		Content: strings.TrimSpace(unescapeAndStrip(content)),
	}
}

// unescapeAndStrip turns literal \n sequences into newlines (models
// sometimes double-escape inside JSON strings) and removes HTML-like tags.
func unescapeAndStrip(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	return htmlTagRe.ReplaceAllString(s, "")
}

// Sanitize removes emphasis markup the model was instructed, but not
// guaranteed, to avoid: *word* becomes word, then any lone asterisks are
// dropped. Running it on already-sanitized content is a no-op.
func Sanitize(content string) string {
	content = emphasisRe.ReplaceAllString(content, "$1")
	return strings.ReplaceAll(content, "*", "")
}
