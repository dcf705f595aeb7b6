// Command botly builds and serves chatbots over documents and websites.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/botly/internal/adapters/driven/ai"
	"github.com/custodia-labs/botly/internal/adapters/driven/config/file"
	"github.com/custodia-labs/botly/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/botly/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/botly/internal/adapters/driving/cli"
	"github.com/custodia-labs/botly/internal/connectors/website"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/core/services"
	"github.com/custodia-labs/botly/internal/logger"
	"github.com/custodia-labs/botly/internal/normalisers"
	"github.com/custodia-labs/botly/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	closeStore, err := setup()
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "botly: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute(ctx)
	closeStore()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup wires the driven adapters into the core services and hands them to
// the CLI. The returned func closes the database.
func setup() (func(), error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing database: %v", err)
		}
	}

	root := settings.Storage.Root
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".botly", "chatbots")
	}
	workspace, err := services.NewWorkspace(root)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("opening workspace: %w", err)
	}

	pipeline, err := postprocessors.ForChunkSettings(settings.Chunk)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("building chunk pipeline: %w", err)
	}

	// Without an embedder, training and answering report ErrEmbeddingUnavailable
	// while chatbot management and settings keep working.
	var embedder driven.EmbeddingService
	if e, err := ai.CreateEmbeddingService(&settings.Embedding); err != nil {
		logger.Warn("embedding provider unavailable: %v", err)
	} else {
		embedder = e
	}

	crawler := website.New(website.WithUserAgent("botly/" + version))
	extractor := services.NewExtractor(normalisers.Default(), crawler)
	indexes := flat.NewStore()

	trainingService := services.NewTrainingService(
		store.ChatbotStore(), extractor, pipeline, embedder, indexes, workspace,
		services.WithBatchSize(settings.Embedding.BatchSize),
		services.WithCrawlDefaults(settings.Crawl.Options()),
		services.WithEmbeddingProvider(settings.Embedding.Provider),
	)

	answerService := services.NewAnswerService(
		workspace, indexes, embedder, ai.NewLLMFactory(settings.LLM),
		services.WithTopK(settings.Retrieval.TopK),
		services.WithTemperature(settings.Retrieval.Temperature),
		services.WithAnswerStore(store.AnswerStore()),
		services.WithChatbotStore(store.ChatbotStore()),
		services.WithQueryProvider(settings.Embedding.Provider),
	)
	if prompts, err := file.NewPromptStore(""); err != nil {
		logger.Warn("prompt templates unavailable, using built-in defaults: %v", err)
	} else {
		answerService.SetPromptStore(prompts)
	}

	chatbotService := services.NewChatbotService(store.ChatbotStore(), store.AnswerStore(), workspace)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Chatbot:  chatbotService,
		Training: trainingService,
		Answer:   answerService,
		Settings: settingsService,
	})

	return closeStore, nil
}
