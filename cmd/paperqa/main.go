package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/philippgille/chromem-go"
	"github.com/rs/cors"

	"github.com/paperqa/paperqa/internal/api"
	"github.com/paperqa/paperqa/internal/config"
	"github.com/paperqa/paperqa/internal/handlers"
	"github.com/paperqa/paperqa/internal/scheduler"
	"github.com/paperqa/paperqa/internal/watcher"
	"github.com/paperqa/paperqa/pkg/knowledge"
	"github.com/paperqa/paperqa/pkg/llm"
	"github.com/paperqa/paperqa/pkg/log"
)

const requestTimeout = 150 * time.Second

func main() {
	var configPath string
	var logFile string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
	flag.Parse()

	var l logr.Logger
	if logFile != "" {
		l = log.New(logFile)
	} else {
		l = log.NewStdoutLogger()
	}

	if configPath == "" {
		var err error
		configPath, err = config.GetHomeConfigPath()
		if err != nil {
			l.Error(err, "Error getting config path")
			os.Exit(1)
		}
	}

	cfg, err := config.LoadConfig(configPath, l)
	if err != nil {
		l.Error(err, "Error loading config")
		os.Exit(1)
	}

	var embedding chromem.EmbeddingFunc
	if cfg.Embedding.Server != "" {
		embedding = knowledge.NewOllamaEmbeddingFunc(cfg.Embedding.Server, cfg.Embedding.Model)
	} else {
		l.Info("No embedding server configured, using local embedder")
		embedding = knowledge.NewLocalEmbeddingFunc()
	}

	base, err := knowledge.NewBase(knowledge.Options{
		DocsGlob:     cfg.DocsGlob,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Embedding:    embedding,
		Logger:       l.WithName("knowledge"),
	})
	if err != nil {
		l.Error(err, "Error creating knowledge base")
		os.Exit(1)
	}
	if err := base.Load(context.Background()); err != nil {
		l.Error(err, "Error indexing papers")
		os.Exit(1)
	}

	reindex := func() {
		if err := base.Load(context.Background()); err != nil {
			l.Error(err, "Reindex failed")
		}
	}

	if cfg.ReindexSchedule != "" {
		sched := scheduler.NewScheduler(l.WithName("scheduler"))
		if err := sched.AddTask("reindex", cfg.ReindexSchedule, reindex); err != nil {
			l.Error(err, "Error scheduling reindex")
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.WatchDocs {
		w, err := watcher.Watch(filepath.Dir(cfg.DocsGlob), reindex, l.WithName("watcher"))
		if err != nil {
			l.Error(err, "Error watching docs directory")
			os.Exit(1)
		}
		defer func() {
			if err := w.Close(); err != nil {
				l.Error(err, "Error closing watcher")
			}
		}()
	}

	h := handlers.NewHandlers(
		base,
		llm.NewClient(cfg.LLM, l.WithName("llm")),
		cfg.TopK,
		l.WithName("handlers"),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask-paper", h.HandleAskPaper)
	mux.HandleFunc("GET /ping", h.HandlePing)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	})

	handler := api.LoggingMiddleware(l.WithName("http"))(
		api.RecoveryMiddleware(l)(
			api.TimeoutMiddleware(requestTimeout)(
				c.Handler(mux))))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Info("Starting server", "addr", cfg.ListenAddr, "chunks", base.Count())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error(err, "HTTP server failed")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	l.Info("Shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		l.Error(err, "Failed to shutdown server")
		os.Exit(1)
	}
}
