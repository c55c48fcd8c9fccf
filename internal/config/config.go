package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings. Every field can be overridden
// from the environment (RAG_ADDR, RAG_UPLOAD_DIR, ...).
type ServerConfig struct {
	Addr        string `yaml:"addr" envconfig:"RAG_ADDR"`
	UploadDir   string `yaml:"upload_dir" envconfig:"RAG_UPLOAD_DIR"`
	EnableCORS  bool   `yaml:"enable_cors" envconfig:"RAG_ENABLE_CORS"`
	LogLevel    string `yaml:"log_level" envconfig:"RAG_LOG_LEVEL"`
	PrettyLogs  bool   `yaml:"pretty_logs" envconfig:"RAG_PRETTY_LOGS"`
	MaxUploadMB int64  `yaml:"max_upload_mb" envconfig:"RAG_MAX_UPLOAD_MB"`
}

// TikaConfig contains connection details for an Apache Tika server.
type TikaConfig struct {
	URL         string `yaml:"url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ExtractorConfig selects and configures the document text extractor.
type ExtractorConfig struct {
	Type string      `yaml:"type"`
	Tika *TikaConfig `yaml:"tika,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	ChunkSize         int    `yaml:"chunk_size"`
	ChunkOverlap      int    `yaml:"chunk_overlap"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// LLMConfig selects and configures the answer generation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// SummarizerConfig configures the per-document summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// RetrievalConfig holds retrieval-time defaults.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults. Environment overrides are applied last.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := envconfig.Process("", &cfg.Server); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragserver/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragserver/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragserver", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server: ServerConfig{
			Addr:        ":8000",
			UploadDir:   "data/documents",
			EnableCORS:  true,
			LogLevel:    "info",
			MaxUploadMB: 32,
		},
		Extractor:   ExtractorConfig{Type: "text"},
		Chunker:     ChunkerConfig{Type: "recursive", ChunkSize: 1000, ChunkOverlap: 200},
		Embedder:    EmbedderConfig{Type: "tfidf"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		LLM: LLMConfig{
			Provider:    "extractive",
			MaxTokens:   500,
			Temperature: 0.3,
		},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 5},
		Retrieval:  RetrievalConfig{TopK: 3},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "data/documents"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Extractor.Type == "tika" && cfg.Extractor.Tika != nil {
		if cfg.Extractor.Tika.URL == "" {
			cfg.Extractor.Tika.URL = "http://localhost:9998"
		}
		if cfg.Extractor.Tika.TimeoutSecs == 0 {
			cfg.Extractor.Tika.TimeoutSecs = 60
		}
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 200
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Chunker.OverlapSentences >= cfg.Chunker.SentencesPerChunk {
		cfg.Chunker.OverlapSentences = cfg.Chunker.SentencesPerChunk - 1
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "documents"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "extractive"
	}
	if cfg.LLM.APIKeyEnv == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
		case "anthropic":
			cfg.LLM.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}
