package story

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	example := &Example{Tag: "rough", Text: "reference passage"}

	if BuildSystemPrompt(nil) != BuildSystemPrompt(nil) {
		t.Error("system prompt without example not byte-identical")
	}
	if BuildSystemPrompt(example) != BuildSystemPrompt(example) {
		t.Error("system prompt with example not byte-identical")
	}
	if BuildUserPrompt("a prompt") != BuildUserPrompt("a prompt") {
		t.Error("user prompt not byte-identical")
	}
}

func TestBuildSystemPromptContract(t *testing.T) {
	got := BuildSystemPrompt(nil)

	for _, want := range []string{
		"CHARACTER NAMES - MANDATORY VARIETY",
		"ABSOLUTELY NO ASTERISKS",
		"STORY STRUCTURE",
		"CRITICAL OUTPUT FORMAT",
		`{"title": "...", "content": "..."}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(got, "STYLE REFERENCE") {
		t.Error("style reference section present without an example")
	}
}

func TestBuildSystemPromptWithExample(t *testing.T) {
	example := &Example{Tag: "voyeur", Text: "the reference passage"}
	got := BuildSystemPrompt(example)

	if !strings.Contains(got, "STYLE REFERENCE") {
		t.Error("missing style reference section")
	}
	if !strings.Contains(got, "the reference passage") {
		t.Error("missing snippet text")
	}
	if !strings.Contains(got, "NOT a template to copy") {
		t.Error("missing guidance-only marker")
	}

	// The output contract must still close the prompt.
	if !strings.HasSuffix(got, "JUST the JSON object itself") {
		t.Error("output contract not at the end of the prompt")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("two friends reconnect")
	if got != "Story prompt: two friends reconnect" {
		t.Errorf("user prompt = %q", got)
	}
}
