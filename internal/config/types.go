package config

// Config holds all inkwell settings. Values come from the YAML config
// file with INKWELL_* environment variables layered on top. The
// OpenRouter API key is deliberately not part of the file: it is read
// from the OPENROUTER_API_KEY environment variable only, so it never
// ends up committed alongside the rest of the configuration.
type Config struct {
	// Model generates stories.
	Model string `koanf:"model" yaml:"model"`

	// TagModel extracts thematic tags from prompts. Defaults to Model
	// when empty.
	TagModel string `koanf:"tag_model" yaml:"tag_model"`

	// APIBase is the OpenRouter-compatible API base URL.
	APIBase string `koanf:"api_base" yaml:"api_base"`

	// SiteURL and AppTitle are sent as attribution headers on every
	// upstream request.
	SiteURL  string `koanf:"site_url" yaml:"site_url"`
	AppTitle string `koanf:"app_title" yaml:"app_title"`

	// Port is the HTTP listen port for `inkwell serve`.
	Port int `koanf:"port" yaml:"port"`

	// DataDir holds the SQLite database.
	DataDir string `koanf:"data_dir" yaml:"data_dir"`

	// ExamplesFile optionally points to a YAML file of style snippets
	// keyed by tag, replacing the built-in library.
	ExamplesFile string `koanf:"examples_file" yaml:"examples_file"`

	// DailyLimit caps generations per user per UTC day. Zero disables
	// the quota.
	DailyLimit int `koanf:"daily_limit" yaml:"daily_limit"`

	// RequestsPerMinute rate-limits upstream completion calls. Zero
	// disables the limiter.
	RequestsPerMinute int `koanf:"requests_per_minute" yaml:"requests_per_minute"`

	// AllowAllOrigins relaxes CORS to * (dev mode).
	AllowAllOrigins bool `koanf:"allow_all_origins" yaml:"allow_all_origins"`
}
