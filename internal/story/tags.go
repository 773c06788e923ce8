package story

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/inkwell-app/inkwell/internal/llm"
)

// Tag is a short lowercase label naming a content category detected in a
// prompt. Tags drive style-example matching and nothing else.
type Tag string

// AllTags is the fixed tag enumeration. Extracted tags outside this set are
// discarded.
var AllTags = []Tag{
	"anal", "oral", "blowjob", "rough", "dominant", "submissive",
	"voyeur", "exhibitionist", "bondage", "spanking", "threesome",
	"rimming", "lesbian", "pegging", "toys", "creampie", "group-sex",
}

var knownTags = func() map[Tag]bool {
	m := make(map[Tag]bool, len(AllTags))
	for _, t := range AllTags {
		m[t] = true
	}
	return m
}()

// maxTags caps how many tags a single prompt can yield.
const maxTags = 3

const tagSystemPrompt = `Extract tags from adult story prompts ONLY if they clearly match the sexual content. If no tags fit, return empty array. Output JSON: {"tags": []} or {"tags": ["tag1"]}`

const tagUserPromptFormat = `Analyze this prompt and select tags ONLY if they match ACTUAL SEXUAL ACTS that will happen.

CRITICAL RULES:
• Only tag specific sexual acts or dynamics explicitly mentioned or strongly implied
• "torn between two people" or "love triangle" ≠ threesome (unless they have sex together)
• "two women mentioned" ≠ threesome (unless they're in same sexual scene)
• When unsure, return EMPTY array: {"tags": []}
• Better NO tags than WRONG tags

Available tags:
- anal, oral, blowjob, rough, dominant, submissive, voyeur, exhibitionist
- bondage, spanking, threesome (3+ people in same sex scene)
- rimming, lesbian, pegging, toys, creampie
- group-sex (4+ people in same sex scene)

Prompt: "%s"

Output format: {"tags": ["tag1"]} or {"tags": []}`

// extractTags derives at most maxTags content tags from the prompt via a
// low-temperature classification call. It never fails: transport or parse
// problems degrade to an empty tag set, since example matching is an
// enhancement rather than a requirement.
func (g *Generator) extractTags(ctx context.Context, prompt string) []Tag {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.tagModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: tagSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(tagUserPromptFormat, prompt)},
		},
		Temperature: 0.2,
		MaxTokens:   80,
		JSONMode:    true,
	})
	if err != nil {
		log.Printf("tag extraction failed, continuing without example: %v", err)
		return nil
	}
	return parseTagResponse(resp.Content)
}

var (
	tagFenceRe   = regexp.MustCompile("```json\\s*|```\\s*")
	tagLabelRe   = regexp.MustCompile(`(?i)tags?:`)
	tagBracketRe = regexp.MustCompile(`["\[\]{}]`)
	tagSplitRe   = regexp.MustCompile(`[,\n]`)
)

// parseTagResponse recovers a tag list from the classifier output. The
// strict path expects {"tags": [...]}; when that fails the text is treated
// as a comma/newline separated list with JSON punctuation stripped out.
func parseTagResponse(raw string) []Tag {
	content := tagFenceRe.ReplaceAllString(strings.TrimSpace(raw), "")

	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Tags != nil {
		return normalizeTags(parsed.Tags)
	}

	// Fallback: comma or newline separated text.
	cleaned := strings.ToLower(content)
	cleaned = tagLabelRe.ReplaceAllString(cleaned, "")
	cleaned = tagBracketRe.ReplaceAllString(cleaned, "")

	var candidates []string
	for _, part := range tagSplitRe.Split(cleaned, -1) {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(part, "json") {
			continue
		}
		candidates = append(candidates, part)
	}
	return normalizeTags(candidates)
}

// normalizeTags lowercases, trims, drops anything outside the fixed
// enumeration, and caps the result at maxTags.
func normalizeTags(raw []string) []Tag {
	var tags []Tag
	for _, r := range raw {
		tag := Tag(strings.ToLower(strings.TrimSpace(r)))
		if !knownTags[tag] {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
