package story

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/inkwell-app/inkwell/internal/llm"
)

func TestParseTagResponseJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Tag
	}{
		{"empty array", `{"tags": []}`, nil},
		{"single tag", `{"tags": ["rough"]}`, []Tag{"rough"}},
		{"multiple tags", `{"tags": ["oral", "dominant"]}`, []Tag{"oral", "dominant"}},
		{"fenced json", "```json\n{\"tags\": [\"lesbian\"]}\n```", []Tag{"lesbian"}},
		{"uppercase and padding", `{"tags": [" ROUGH ", "Toys"]}`, []Tag{"rough", "toys"}},
		{"capped at three", `{"tags": ["anal", "oral", "rough", "toys", "bondage"]}`, []Tag{"anal", "oral", "rough"}},
		{"unknown tags dropped", `{"tags": ["romance", "rough", "slowburn"]}`, []Tag{"rough"}},
		{"all unknown", `{"tags": ["romance", "slowburn"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTagResponse(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTagResponse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTagResponseFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Tag
	}{
		{"comma separated", "rough, dominant", []Tag{"rough", "dominant"}},
		{"newline separated", "rough\nsubmissive", []Tag{"rough", "submissive"}},
		{"tags label stripped", "Tags: rough, toys", []Tag{"rough", "toys"}},
		{"brackets stripped", `["rough", "oral"]`, []Tag{"rough", "oral"}},
		{"json noise skipped", "json\nrough", []Tag{"rough"}},
		{"free text yields nothing", "I could not find any matching tags.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTagResponse(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTagResponse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTagResponseNeverExceedsThree(t *testing.T) {
	raw := "anal, oral, rough, toys, bondage, spanking"
	if got := parseTagResponse(raw); len(got) > 3 {
		t.Errorf("got %d tags, want <= 3: %v", len(got), got)
	}
}

func TestExtractTagsDegradesOnTransportError(t *testing.T) {
	provider := &stubProvider{errs: []error{errors.New("connection refused")}}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	if got := gen.extractTags(context.Background(), "some prompt"); len(got) != 0 {
		t.Errorf("expected empty tags, got %v", got)
	}
}

func TestExtractTagsDegradesOnGarbage(t *testing.T) {
	provider := &stubProvider{
		responses: []*llm.CompletionResponse{
			{Content: "I'm sorry, I can't classify that."},
		},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	if got := gen.extractTags(context.Background(), "some prompt"); len(got) != 0 {
		t.Errorf("expected empty tags, got %v", got)
	}
}

func TestAllTagsAreLowercase(t *testing.T) {
	for _, tag := range AllTags {
		for _, r := range string(tag) {
			if r >= 'A' && r <= 'Z' {
				t.Errorf("tag %q contains uppercase", tag)
			}
		}
	}
}
