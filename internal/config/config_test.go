package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paperqa/paperqa/pkg/log"
)

func TestLoadConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	l := log.NewStdoutLogger()

	// Test when config file doesn't exist
	cfg, err := LoadConfig(configPath, l)
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if cfg.ListenAddr != ":8000" {
		t.Errorf("Expected default listen_addr :8000, got %s", cfg.ListenAddr)
	}
	if cfg.DocsGlob != "input/*.tex" {
		t.Errorf("Expected default docs_glob input/*.tex, got %s", cfg.DocsGlob)
	}
	if cfg.ChunkSize != 800 || cfg.ChunkOverlap != 150 {
		t.Errorf("Expected default chunking 800/150, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 10 {
		t.Errorf("Expected default top_k 10, got %d", cfg.TopK)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"listen_addr": ":9000",
		"docs_glob": "papers/*.tex",
		"chunk_size": 400,
		"chunk_overlap": 50,
		"top_k": 3,
		"llm": {"base_url": "http://localhost:11434/v1", "model": "llama3.1"}
	}`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath, log.NewStdoutLogger())
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("Expected listen_addr :9000, got %s", cfg.ListenAddr)
	}
	if cfg.DocsGlob != "papers/*.tex" {
		t.Errorf("Expected docs_glob papers/*.tex, got %s", cfg.DocsGlob)
	}
	if cfg.ChunkSize != 400 || cfg.ChunkOverlap != 50 {
		t.Errorf("Expected chunking 400/50, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("Unexpected llm base_url: %s", cfg.LLM.BaseURL)
	}
}

func TestLoadConfigEnvPassthrough(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("OPENAI_BASE_URL", "http://env-host:8080/v1")
	t.Setenv("OPENAI_MODEL", "mistral")

	cfg, err := LoadConfig(configPath, log.NewStdoutLogger())
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if cfg.LLM.BaseURL != "http://env-host:8080/v1" {
		t.Errorf("Expected llm base_url from env, got %s", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("Expected llm model from env, got %s", cfg.LLM.Model)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("PAPERQA_LISTEN_ADDR", ":9100")
	t.Setenv("PAPERQA_TOP_K", "5")
	t.Setenv("PAPERQA_WATCH_DOCS", "true")
	t.Setenv("PAPERQA_EMBEDDING_SERVER", "http://ollama:11434/api")
	t.Setenv("PAPERQA_EMBEDDING_MODEL", "nomic-embed-text")
	t.Setenv("PAPERQA_LLM_MODEL", "qwen2.5")

	cfg, err := LoadConfig(configPath, log.NewStdoutLogger())
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if cfg.ListenAddr != ":9100" {
		t.Errorf("Expected listen_addr :9100 from env, got %s", cfg.ListenAddr)
	}
	if cfg.TopK != 5 {
		t.Errorf("Expected top_k 5 from env, got %d", cfg.TopK)
	}
	if !cfg.WatchDocs {
		t.Error("Expected watch_docs true from env")
	}
	if cfg.Embedding.Server != "http://ollama:11434/api" {
		t.Errorf("Expected embedding server from env, got %q", cfg.Embedding.Server)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("Expected embedding model from env, got %q", cfg.Embedding.Model)
	}
	if cfg.LLM.Model != "qwen2.5" {
		t.Errorf("Expected llm model from env, got %q", cfg.LLM.Model)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	data := `{"listen_addr": ":9000", "embedding": {"server": "http://file-host:11434/api"}}`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAPERQA_EMBEDDING_SERVER", "http://env-host:11434/api")

	cfg, err := LoadConfig(configPath, log.NewStdoutLogger())
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("Expected listen_addr :9000 from file, got %s", cfg.ListenAddr)
	}
	if cfg.Embedding.Server != "http://env-host:11434/api" {
		t.Errorf("Expected env to win over file, got %q", cfg.Embedding.Server)
	}
}

func TestLoadConfigRejectsBadChunking(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	data := `{"chunk_size": 100, "chunk_overlap": 100}`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(configPath, log.NewStdoutLogger()); err == nil {
		t.Error("Expected an error for chunk_overlap >= chunk_size but got none")
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(configPath, log.NewStdoutLogger()); err == nil {
		t.Error("Expected an error for malformed config but got none")
	}
}
