package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/paperqa/paperqa/pkg/knowledge"
	"github.com/paperqa/paperqa/pkg/llm"
)

const ConfigPath = ".config/paperqa/config.json"

// EmbeddingConfig selects the embedder for the knowledge base. An empty
// server means the local hash embedder.
type EmbeddingConfig struct {
	Server string `json:"server" mapstructure:"server"`
	Model  string `json:"model" mapstructure:"model"`
}

type Config struct {
	ListenAddr      string          `json:"listen_addr" mapstructure:"listen_addr" validate:"required"`
	DocsGlob        string          `json:"docs_glob" mapstructure:"docs_glob" validate:"required"`
	ChunkSize       int             `json:"chunk_size" mapstructure:"chunk_size" validate:"gt=0"`
	ChunkOverlap    int             `json:"chunk_overlap" mapstructure:"chunk_overlap" validate:"gte=0"`
	TopK            int             `json:"top_k" mapstructure:"top_k" validate:"gt=0"`
	ReindexSchedule string          `json:"reindex_schedule" mapstructure:"reindex_schedule"`
	WatchDocs       bool            `json:"watch_docs" mapstructure:"watch_docs"`
	Embedding       EmbeddingConfig `json:"embedding" mapstructure:"embedding"`
	LLM             llm.Config      `json:"llm" mapstructure:"llm"`
}

var validate = validator.New()

func GetHomeConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigPath), nil
}

// LoadConfig reads the JSON config file at path, layering PAPERQA_* env
// variables on top. A missing file yields the defaults.
func LoadConfig(path string, l logr.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("docs_glob", "input/*.tex")
	v.SetDefault("chunk_size", knowledge.DefaultChunkSize)
	v.SetDefault("chunk_overlap", knowledge.DefaultChunkOverlap)
	v.SetDefault("top_k", 10)

	v.SetEnvPrefix("PAPERQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about, so nested
	// keys without defaults must be bound explicitly or their PAPERQA_*
	// variables are silently ignored.
	for _, key := range []string{
		"listen_addr",
		"docs_glob",
		"chunk_size",
		"chunk_overlap",
		"top_k",
		"reindex_schedule",
		"watch_docs",
		"embedding.server",
		"embedding.model",
		"llm.base_url",
		"llm.api_key",
		"llm.model",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			l.Info("No config file found, using defaults", "path", path)
		} else {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// OPENAI_* passthrough keeps parity with how the service was always
	// deployed; explicit config wins.
	env := llm.ConfigFromEnv()
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = env.BaseURL
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = env.APIKey
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = env.Model
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk_overlap %d must be smaller than chunk_size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return &cfg, nil
}
