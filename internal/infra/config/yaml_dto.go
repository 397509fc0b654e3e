package config

// YAMLConfig mirrors blogctl.yaml. Pointer and zero values mean "use the default".
type YAMLConfig struct {
	Blogctl struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Paths struct {
			ContentDir string `yaml:"content_dir"`
			PublishDir string `yaml:"publish_dir"`
			RunsDir    string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"blogctl"`

	Site struct {
		BaseURL      string `yaml:"base_url"`
		CanonicalURL string `yaml:"canonical_url"`
	} `yaml:"site"`

	DevTo struct {
		BaseURL       string `yaml:"base_url"`
		Timeout       string `yaml:"timeout"`
		Retries       *int   `yaml:"retries"`
		BackoffFactor string `yaml:"backoff_factor"`
	} `yaml:"devto"`

	Publish struct {
		Remote        string `yaml:"remote"`
		Branch        string `yaml:"branch"`
		CommitMessage string `yaml:"commit_message"`
	} `yaml:"publish"`
}
