// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CorpusConfig holds settings for the regulatory corpus store.
// Per prd004-corpus-store R1.2, R2.3.
type CorpusConfig struct {
	// CorpusDir is the base directory for the corpus (contains entries/, index/).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// RetrievalConfig holds settings for the retrieval pipeline.
// Per prd002-retrieval R4.1-R4.4.
type RetrievalConfig struct {
	// MaxResults caps the ranked entry list handed to the formatter (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// StrategyTimeout bounds each individual strategy call (default 5s).
	// A timed-out strategy contributes an empty result.
	StrategyTimeout time.Duration `json:"strategy_timeout" yaml:"strategy_timeout"`

	// MaxConcurrent bounds the strategy fan-out worker count (default 4).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// ValidationConfig holds the completeness validator thresholds. The defaults
// reflect the constants observed in regulatory answer corpora; they are
// provisional pending confirmation against the underlying documentation.
// Per prd005-validation R5.1-R5.3.
type ValidationConfig struct {
	// LongAnswerThreshold is the character count above which an answer must
	// carry a conclusion or summary marker (default 3000).
	LongAnswerThreshold int `json:"long_answer_threshold" yaml:"long_answer_threshold"`

	// ConclusionWindow is how many trailing characters are scanned for a
	// conclusion marker (default 1500).
	ConclusionWindow int `json:"conclusion_window" yaml:"conclusion_window"`

	// MinTimetableDates is the minimum number of distinct date tokens a
	// rights-issue timetable must contain (default 6).
	MinTimetableDates int `json:"min_timetable_dates" yaml:"min_timetable_dates"`
}

// AIConfig holds shared settings for the answer-generation API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnswerConfig holds settings for the answer-generation stage.
// Per prd006-answering R2.1-R2.3.
type AnswerConfig struct {
	AIConfig `yaml:",inline"`

	// OutputDir is the directory for saved answers (e.g. "output/answers/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// EngineConfig groups all stage configurations for the engine.
type EngineConfig struct {
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus"`
	Retrieval  RetrievalConfig  `json:"retrieval" yaml:"retrieval"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Answer     AnswerConfig     `json:"answer" yaml:"answer"`
}
