package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Storage     StorageConfig `toml:"storage"`
	Qdrant      QdrantConfig  `toml:"qdrant"`
	LLM         LLMConfig     `toml:"llm"`
	Claude      ClaudeConfig  `toml:"claude"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Chat        ChatConfig    `toml:"chat"`
	Ingest      IngestConfig  `toml:"ingest"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// QdrantConfig contains the vector store connection settings. The collection
// vector size is fixed at creation time to gemini.embed_dimension.
type QdrantConfig struct {
	URL        string `toml:"url"`        // Qdrant base URL, e.g. "http://localhost:6333"
	APIKey     string `toml:"api_key"`    // Optional api-key header value
	Collection string `toml:"collection"` // Collection name (default: "documents")
	Timeout    string `toml:"timeout"`    // Request timeout as duration string (default: "15s")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-sonnet-4-20250514")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2048)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// GeminiConfig contains Google Gemini API configuration. Gemini always
// serves embeddings; it serves chat too when selected as the default
// provider.
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`          // Google Gemini API key
	Model          string  `toml:"model"`            // Chat model (default: "gemini-2.5-flash")
	MaxTokens      int     `toml:"max_tokens"`       // Maximum tokens in response (default: 2048)
	EmbedModel     string  `toml:"embed_model"`      // Embedding model (default: "gemini-embedding-001")
	EmbedDimension int     `toml:"embed_dimension"`  // Embedding output dimension (default: 1536)
	EmbedRateLimit float64 `toml:"embed_rate_limit"` // Embedding requests per second (default: 5)
	Timeout        string  `toml:"timeout"`          // Operation timeout as duration string (default: "2m")
	Temperature    float32 `toml:"temperature"`      // Completion temperature (default: 0.3)
}

// LLMConfig selects the chat provider
type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "claude" or "gemini" (default: "gemini")
}

// ChatConfig tunes the answer pipeline
type ChatConfig struct {
	MaxPassages int `toml:"max_passages"` // Passages retrieved per question (default: 4)
}

// IngestConfig tunes document chunking
type IngestConfig struct {
	ChunkSize    int `toml:"chunk_size"`     // Target chunk size in characters (default: 1000)
	ChunkOverlap int `toml:"chunk_overlap"`  // Overlap between consecutive chunks (default: 200)
	MaxBodyBytes int `toml:"max_body_bytes"` // Maximum decoded document size (default: 25 MB)
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in respondeo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "documents",
			Timeout:    "15s",
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   2048,
			Timeout:     "2m",
			Temperature: 0.3,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			MaxTokens:      2048,
			EmbedModel:     "gemini-embedding-001",
			EmbedDimension: 1536,
			EmbedRateLimit: 5,
			Timeout:        "2m",
			Temperature:    0.3,
		},
		Chat: ChatConfig{
			MaxPassages: 4,
		},
		Ingest: IngestConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			MaxBodyBytes: 25 * 1024 * 1024,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RESPONDEO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("RESPONDEO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RESPONDEO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("RESPONDEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if badgerPath := os.Getenv("RESPONDEO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if url := os.Getenv("RESPONDEO_QDRANT_URL"); url != "" {
		config.Qdrant.URL = url
	}
	if apiKey := os.Getenv("RESPONDEO_QDRANT_API_KEY"); apiKey != "" {
		config.Qdrant.APIKey = apiKey
	}
	if collection := os.Getenv("RESPONDEO_QDRANT_COLLECTION"); collection != "" {
		config.Qdrant.Collection = collection
	}

	if provider := os.Getenv("RESPONDEO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}

	if dim := os.Getenv("RESPONDEO_EMBED_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Gemini.EmbedDimension = d
		}
	}

	if k := os.Getenv("RESPONDEO_CHAT_MAX_PASSAGES"); k != "" {
		if v, err := strconv.Atoi(k); err == nil && v > 0 {
			config.Chat.MaxPassages = v
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration invariants that would otherwise surface as
// runtime failures deep in the pipeline
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Qdrant.URL == "" {
		return fmt.Errorf("qdrant.url is required")
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant.collection is required")
	}
	if c.Gemini.EmbedDimension <= 0 {
		return fmt.Errorf("gemini.embed_dimension must be positive, got %d", c.Gemini.EmbedDimension)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunk_size must be positive, got %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("ingest.chunk_overlap must be in [0, chunk_size), got %d", c.Ingest.ChunkOverlap)
	}
	switch c.LLM.DefaultProvider {
	case "claude", "gemini":
	default:
		return fmt.Errorf("invalid llm.default_provider '%s': must be 'claude' or 'gemini'", c.LLM.DefaultProvider)
	}
	return nil
}
