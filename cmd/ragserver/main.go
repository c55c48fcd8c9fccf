package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ragserver/internal/chunker"
	"ragserver/internal/config"
	"ragserver/internal/domain"
	"ragserver/internal/embedding"
	"ragserver/internal/embedding/openai"
	"ragserver/internal/embedding/tfidf"
	"ragserver/internal/extract"
	"ragserver/internal/llm"
	"ragserver/internal/llm/anthropic"
	"ragserver/internal/llm/extractive"
	llmopenai "ragserver/internal/llm/openai"
	"ragserver/internal/server"
	"ragserver/internal/service"
	"ragserver/internal/summarizer"
	"ragserver/internal/vectorstore"
	"ragserver/internal/vectorstore/memory"
	"ragserver/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragserver/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.Server)

	// Assemble components
	var tikaExtractor *extract.TikaExtractor
	if cfg.Extractor.Type == "tika" {
		var tikaURL string
		var tikaTimeout time.Duration
		if cfg.Extractor.Tika != nil {
			tikaURL = cfg.Extractor.Tika.URL
			tikaTimeout = time.Duration(cfg.Extractor.Tika.TimeoutSecs) * time.Second
		}
		tikaExtractor = extract.NewTikaExtractor(tikaURL, tikaTimeout)
	}
	extractor := extract.NewRouter(tikaExtractor)

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "recursive", "":
		ch = chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		log.Fatal().Str("type", cfg.Chunker.Type).Msg("unknown chunker")
	}

	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatal().Msg("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("openai embedder init failed")
		}
		emb = client
	default:
		log.Fatal().Str("type", cfg.Embedder.Type).Msg("unknown embedder")
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatal().Msg("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatal().Str("type", cfg.VectorStore.Type).Msg("unknown vector store")
	}

	sum := summarizer.NewFrequencySummarizer()

	var gen llm.Generator
	switch cfg.LLM.Provider {
	case "extractive", "":
		gen = extractive.NewGenerator(sum, cfg.Summarizer.MaxSentences)
	case "openai":
		g, err := llmopenai.NewGenerator(llmopenai.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKeyEnv:   cfg.LLM.APIKeyEnv,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("openai generator init failed")
		}
		gen = g
	case "anthropic":
		g, err := anthropic.NewGenerator(anthropic.Config{
			APIKeyEnv:   cfg.LLM.APIKeyEnv,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("anthropic generator init failed")
		}
		gen = g
	default:
		log.Fatal().Str("provider", cfg.LLM.Provider).Msg("unknown llm provider")
	}

	svc := service.NewRAGService(extractor, ch, emb, st, sum, gen,
		cfg.Summarizer.MaxSentences, cfg.Retrieval.TopK)

	handler := server.NewHandler(svc, cfg.Server.UploadDir, cfg.Server.MaxUploadMB<<20)
	router := server.NewRouter(handler, cfg.Server.EnableCORS)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("embedder", emb.Name()).
			Str("vector_store", cfg.VectorStore.Type).
			Str("llm", gen.Name()).
			Msg("RAG server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func setupLogging(cfg config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
