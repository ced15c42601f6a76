// Package file provides the TOML-based configuration for the docqa CLI
// and server. Configuration lives in ~/.docqa/config.toml by default;
// environment variables override secrets so API keys stay out of the file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.7
	DefaultMaxFileSizeMB       = 50
	DefaultPort                = 8080
	DefaultEmbeddingProvider   = "ollama"
	DefaultEmbeddingDimensions = 384
)

// Config is the typed application configuration.
type Config struct {
	// DataDir is where the vector store and metadata database live.
	// Defaults to ~/.docqa/data.
	DataDir string `toml:"data_dir"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Server    ServerConfig    `toml:"server"`
}

// ChunkingConfig controls how document text is split into segments.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalConfig controls similarity search.
type RetrievalConfig struct {
	TopK                int     `toml:"top_k"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`

	// APIKey for hosted providers. The OPENAI_API_KEY environment
	// variable takes precedence.
	APIKey string `toml:"api_key"`
}

// LLMConfig configures answer generation. Optional: with no API key,
// queries return retrieval results without a generated answer.
type LLMConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`

	// APIKey for the Groq API. The GROQ_API_KEY environment variable
	// takes precedence.
	APIKey string `toml:"api_key"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int `toml:"port"`
	MaxFileSizeMB int `toml:"max_file_size_mb"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Chunking: ChunkingConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:                DefaultTopK,
			SimilarityThreshold: DefaultSimilarityThreshold,
		},
		Embedding: EmbeddingConfig{
			Provider:   DefaultEmbeddingProvider,
			Dimensions: DefaultEmbeddingDimensions,
		},
		Server: ServerConfig{
			Port:          DefaultPort,
			MaxFileSizeMB: DefaultMaxFileSizeMB,
		},
	}
}

// DefaultPath returns the default config file path (~/.docqa/config.toml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docqa", "config.toml"), nil
}

// Load reads the configuration at path, fills unset fields with defaults,
// and applies environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	fillDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions,
// creating the directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Restricted permissions: the file may hold API keys
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values with defaults after a partial file load.
func fillDefaults(cfg *Config) {
	if cfg.Chunking.ChunkSize <= 0 {
		cfg.Chunking.ChunkSize = DefaultChunkSize
	}
	if cfg.Chunking.ChunkOverlap <= 0 {
		cfg.Chunking.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Retrieval.SimilarityThreshold <= 0 {
		cfg.Retrieval.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = DefaultEmbeddingProvider
	}
	if cfg.Embedding.Dimensions <= 0 {
		cfg.Embedding.Dimensions = DefaultEmbeddingDimensions
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.MaxFileSizeMB <= 0 {
		cfg.Server.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
}

// applyEnv overrides secrets from the environment.
func applyEnv(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}
}
