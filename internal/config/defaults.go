package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:             "mistralai/mistral-small-creative",
		TagModel:          "",
		APIBase:           "https://openrouter.ai/api/v1",
		SiteURL:           "https://inkwell.app",
		AppTitle:          "Inkwell",
		Port:              8080,
		DataDir:           ".inkwell",
		DailyLimit:        20,
		RequestsPerMinute: 0,
		AllowAllOrigins:   false,
	}
}
