// Command notedex indexes a folder of plain-text notes into a local
// vector store and retrieves them by meaning.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/notedex/internal/adapters/driven/ai"
	"github.com/custodia-labs/notedex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notedex/internal/adapters/driven/storage/hashes"
	"github.com/custodia-labs/notedex/internal/adapters/driven/storage/snapshot"
	"github.com/custodia-labs/notedex/internal/adapters/driving/cli"
	"github.com/custodia-labs/notedex/internal/core/services"
	"github.com/custodia-labs/notedex/internal/logger"
	"github.com/custodia-labs/notedex/internal/vault"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the adapters into the core services and hands control to the
// CLI. Wiring degrades instead of failing: on a fresh install nothing is
// configured yet, and the settings commands must still run so the user
// can fix that.
func run() error {
	cfgStore, err := file.NewConfigStore(os.Getenv("NOTEDEX_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(cfgStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	wired := cli.Services{Settings: settingsService}

	aiResult, err := ai.InitServices(settings)
	if err != nil {
		if settings.Embedding.IsConfigured() {
			logger.Warn("index and search disabled", "error", err)
		}
	} else {
		defer aiResult.Close()
		for _, warning := range aiResult.Warnings {
			logger.Warn(warning)
		}

		// Snapshots live next to the config file.
		dataDir := filepath.Dir(cfgStore.Path())
		ctx := context.Background()

		store := snapshot.New(dataDir)
		if err := store.Initialize(ctx); err != nil {
			return fmt.Errorf("open vector store: %w", err)
		}
		defer store.Close()

		registry := hashes.New(dataDir)
		if err := registry.Initialize(ctx); err != nil {
			return fmt.Errorf("open hash registry: %w", err)
		}
		defer registry.Close()

		embedder := services.NewEmbeddingPipeline(aiResult.EmbeddingService, settings)
		retriever := services.NewRetrievalPipeline(store, embedder, aiResult.LLMService, settings)
		wired.Retriever = retriever

		// Prompt templates are user-editable files next to the config.
		prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
		if err != nil {
			logger.Warn("custom prompts disabled", "error", err)
		} else {
			retriever.SetPromptStore(prompts)
		}

		settingsService.Subscribe(embedder.UpdateSettings)
		settingsService.Subscribe(retriever.UpdateSettings)

		if settings.Vault.Path == "" {
			logger.Debug("vault path not set, indexing disabled")
		} else {
			notes, err := vault.New(settings.Vault.Path)
			if err != nil {
				return fmt.Errorf("open vault: %w", err)
			}
			defer notes.Close()

			engine := services.NewIndexingEngine(notes, store, registry, embedder, settings)
			defer engine.Close()
			wired.Indexer = engine

			settingsService.Subscribe(engine.UpdateSettings)
		}
	}

	cli.SetServices(wired)
	cli.SetVersion(version)
	return cli.Execute()
}
