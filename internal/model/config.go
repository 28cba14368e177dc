package model

import "time"

// Config holds the complete runtime configuration.
type Config struct {
	Encoder     EncoderConfig     `yaml:"encoder" json:"encoder"`
	QA          QAConfig          `yaml:"qa" json:"qa"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" json:"retrieval"`
	Vocabulary  VocabularyConfig  `yaml:"vocabulary" json:"vocabulary"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Server      ServerConfig      `yaml:"server" json:"server"`
}

// EncoderConfig configures the dense sentence encoder.
type EncoderConfig struct {
	Disabled bool   `yaml:"disabled" json:"disabled"` // skip dense retrieval, scan all sentences
	Model    string `yaml:"model" json:"model"`       // e.g. BAAI/bge-small-en-v1.5
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// QAConfig configures the extractive QA answerer used by the AMSTAR
// evaluator and the numeric QA backstop.
type QAConfig struct {
	Disabled   bool    `yaml:"disabled" json:"disabled"` // rules only
	Provider   string  `yaml:"provider" json:"provider"` // "openai", "ollama", ""
	Model      string  `yaml:"model" json:"model"`
	APIKey     string  `yaml:"-" json:"-"`
	BaseURL    string  `yaml:"base_url" json:"base_url"`
	Timeout    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	RateLimit  float64 `yaml:"rate_limit" json:"rate_limit"` // requests per second
	RateBurst  int     `yaml:"rate_burst" json:"rate_burst"`
	HTTPProxy  string  `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string  `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string  `yaml:"no_proxy" json:"no_proxy"`
}

// RetrievalConfig tunes top-K retrieval windows.
type RetrievalConfig struct {
	// DefaultK applies when a slot does not override its window size.
	DefaultK int `yaml:"default_k" json:"default_k"`
}

// VocabularyConfig locates the vocabulary file. Empty path uses the
// embedded default vocabulary.
type VocabularyConfig struct {
	Path string `yaml:"path" json:"path"`
}

// CacheConfig configures the host-side record cache. The extraction core
// itself never caches; this only short-circuits repeat documents in batch
// and server mode.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// ConcurrencyConfig sets batch-mode parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose         bool `yaml:"verbose" json:"verbose"`
	IncludeEvidence bool `yaml:"include_evidence" json:"include_evidence"`
}

// ServerConfig configures the reference HTTP host.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Encoder: EncoderConfig{
			Model: "BAAI/bge-small-en-v1.5",
		},
		QA: QAConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			RateLimit: 2,
			RateBurst: 5,
		},
		Retrieval: RetrievalConfig{
			DefaultK: 12,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{},
		Server: ServerConfig{
			Addr: ":8085",
		},
	}
}
