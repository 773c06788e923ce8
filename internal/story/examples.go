package story

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Snippet is an illustrative passage of prose associated with a tag. It is
// used purely as a style reference and is never copied into output.
type Snippet struct {
	Text string `yaml:"text"`
}

// Example is a snippet selected for a request, paired with the tag that
// matched it.
type Example struct {
	Tag  Tag
	Text string
}

// Library holds the tag-to-snippet mapping. It is read-only after
// construction and safe for concurrent use.
type Library struct {
	snippets map[Tag][]Snippet

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithRand sets the randomness source used to pick among eligible snippets.
// Tests inject a seeded source for reproducible selection.
func WithRand(rng *rand.Rand) LibraryOption {
	return func(l *Library) { l.rng = rng }
}

// NewLibrary creates a library from the given mapping. A nil mapping yields
// the built-in default snippets.
func NewLibrary(snippets map[Tag][]Snippet, opts ...LibraryOption) *Library {
	if snippets == nil {
		snippets = defaultSnippets
	}
	l := &Library{
		snippets: snippets,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadLibrary reads a tag-to-snippet mapping from a YAML file:
//
//	rough:
//	  - text: "..."
//	lesbian:
//	  - text: "..."
func LoadLibrary(path string, opts ...LibraryOption) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading examples file: %w", err)
	}
	var raw map[Tag][]Snippet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing examples file %s: %w", path, err)
	}
	return NewLibrary(raw, opts...), nil
}

// ExampleFor returns one snippet chosen uniformly at random from the union
// of snippets of all supplied tags, or nil when no tag has any snippet.
func (l *Library) ExampleFor(tags []Tag) *Example {
	var candidates []Example
	for _, tag := range tags {
		for _, s := range l.snippets[tag] {
			candidates = append(candidates, Example{Tag: tag, Text: s.Text})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	l.mu.Lock()
	pick := l.rng.Intn(len(candidates))
	l.mu.Unlock()

	chosen := candidates[pick]
	return &chosen
}

// Tags returns the tags that have at least one snippet.
func (l *Library) Tags() []Tag {
	var tags []Tag
	for tag, snippets := range l.snippets {
		if len(snippets) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags
}

// defaultSnippets ship with the binary so example matching works out of the
// box. Deployments curate their own library via the examples_file setting.
var defaultSnippets = map[Tag][]Snippet{
	"rough": {
		{Text: `He pressed her against the wall, one hand tangled in her hair, and she felt the last of her composure slip away. "Don't be gentle," she breathed, and he wasn't. Her shoulder blades struck the plaster with every movement, the picture frame beside them rattling until it fell, and neither of them cared.`},
	},
	"dominant": {
		{Text: `"Look at me." His voice was quiet, which made it worse. She lifted her chin, pulse hammering, and did as she was told. He took his time studying her, letting the silence do the work, and when he finally touched her it was with the unhurried confidence of a man who already knew exactly how this evening would end.`},
	},
	"submissive": {
		{Text: `She knelt on the cool hardwood and waited, hands folded, eyes down. The waiting was its own kind of heat. When his footsteps finally crossed the room she had to fight not to look up, and the soft word of approval he gave her for it went through her like warm brandy.`},
	},
	"lesbian": {
		{Text: `Mara's fingers traced the line of her collarbone, slow and deliberate, and Ines forgot whatever she had been about to say. "You talk too much," Mara murmured against her throat, and the laugh that answered dissolved into a sigh as two decades of almosts finally stopped being almost.`},
	},
	"voyeur": {
		{Text: `From the darkened balcony she could see everything and they could see nothing, and that asymmetry was electric. She knew she should step back inside. Instead she stayed, barely breathing, one hand gripping the rail, complicit in a scene that didn't know it had an audience.`},
	},
	"bondage": {
		{Text: `The silk cuffs were more suggestion than restraint, and that was the point. She tested them once, felt the gentle refusal, and let her head fall back against the pillow. Giving up control, she was discovering, was nothing like losing it.`},
	},
}
