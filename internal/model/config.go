package model

import "time"

// Config is the full engine configuration.
// The matching thresholds and penalty multipliers mirror the values the
// test expectations were calibrated against; override them via the config
// file rather than editing the defaults.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Structural  StructuralConfig  `yaml:"structural" mapstructure:"structural"`
	Quote       QuoteConfig       `yaml:"quote" mapstructure:"quote"`
	Quality     QualityConfig     `yaml:"quality" mapstructure:"quality"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the reasoning collaborator
type LLMConfig struct {
	Provider   string        `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model      string        `yaml:"model" mapstructure:"model"`
	APIKey     string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
	Backoff    time.Duration `yaml:"backoff" mapstructure:"backoff"` // Base delay, doubled per retry
	MaxTokens  int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	RateLimit  float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
	RateBurst  int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// RetrievalConfig bounds rule retrieval per corpus
type RetrievalConfig struct {
	PrimaryQuota   int `yaml:"primary_quota" mapstructure:"primary_quota"`
	SecondaryQuota int `yaml:"secondary_quota" mapstructure:"secondary_quota"`
	MinIndexToken  int `yaml:"min_index_token" mapstructure:"min_index_token"` // Min token length indexed
	MinQueryToken  int `yaml:"min_query_token" mapstructure:"min_query_token"` // Min generic query token length
}

// StructuralConfig holds the pre-validator's penalty multipliers.
// Values are preserved from the original calibration, not re-derived.
type StructuralConfig struct {
	MinLength          int     `yaml:"min_length" mapstructure:"min_length"`
	MaxLength          int     `yaml:"max_length" mapstructure:"max_length"`
	ShortPenalty       float64 `yaml:"short_penalty" mapstructure:"short_penalty"`
	MissingYearPenalty float64 `yaml:"missing_year_penalty" mapstructure:"missing_year_penalty"`
	VsPenalty          float64 `yaml:"vs_penalty" mapstructure:"vs_penalty"`
	NoSectionPenalty   float64 `yaml:"no_section_penalty" mapstructure:"no_section_penalty"`
	OverlongPenalty    float64 `yaml:"overlong_penalty" mapstructure:"overlong_penalty"`
}

// QuoteConfig configures the quote verifier
type QuoteConfig struct {
	FuzzyThreshold  int `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`   // 0-100 scale
	MinFuzzyWords   int `yaml:"min_fuzzy_words" mapstructure:"min_fuzzy_words"`   // Quotes shorter than this skip fuzzy
	WindowThreshold int `yaml:"window_threshold" mapstructure:"window_threshold"` // Chars; longer quotes also slide a window
	ContextRadius   int `yaml:"context_radius" mapstructure:"context_radius"`     // Context snippet chars each side
	MaxDifferences  int `yaml:"max_differences" mapstructure:"max_differences"`   // Cap on reported diff entries
}

// QualityConfig configures marked-region quality assessment
type QualityConfig struct {
	AlnumRatioFloor    float64 `yaml:"alnum_ratio_floor" mapstructure:"alnum_ratio_floor"`
	CorruptedThreshold float64 `yaml:"corrupted_threshold" mapstructure:"corrupted_threshold"`
	OverlapTolerance   float64 `yaml:"overlap_tolerance" mapstructure:"overlap_tolerance"` // Annotation bbox expansion
	FallbackTopRatio   float64 `yaml:"fallback_top_ratio" mapstructure:"fallback_top_ratio"`
	FallbackMinChars   int     `yaml:"fallback_min_chars" mapstructure:"fallback_min_chars"`
	FallbackMaxPages   int     `yaml:"fallback_max_pages" mapstructure:"fallback_max_pages"`
}

// CacheConfig configures the reasoner response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds fan-out across citations
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the calibrated defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:   "",
			Model:      "",
			Timeout:    60 * time.Second,
			MaxRetries: 3,
			Backoff:    time.Second,
			MaxTokens:  2000,
			RateLimit:  2,
			RateBurst:  4,
		},
		Retrieval: RetrievalConfig{
			PrimaryQuota:   8,
			SecondaryQuota: 4,
			MinIndexToken:  2,
			MinQueryToken:  3,
		},
		Structural: StructuralConfig{
			MinLength:          15,
			MaxLength:          350,
			ShortPenalty:       0.5,
			MissingYearPenalty: 0.7,
			VsPenalty:          0.8,
			NoSectionPenalty:   0.6,
			OverlongPenalty:    0.9,
		},
		Quote: QuoteConfig{
			FuzzyThreshold:  75,
			MinFuzzyWords:   3,
			WindowThreshold: 100,
			ContextRadius:   150,
			MaxDifferences:  10,
		},
		Quality: QualityConfig{
			AlnumRatioFloor:    0.6,
			CorruptedThreshold: 0.5,
			OverlapTolerance:   5.0,
			FallbackTopRatio:   0.4,
			FallbackMinChars:   20,
			FallbackMaxPages:   3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
