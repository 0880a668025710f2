// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	completionollama "github.com/custodia-labs/recall-cli/internal/adapters/driven/completion/ollama"
	completionopenai "github.com/custodia-labs/recall-cli/internal/adapters/driven/completion/openai"
	configfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/openai"
	storagememory "github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	vectordurable "github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/durable"
	vectormemory "github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/events"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose bool
	dataDir string
)

// Wired services, populated by initServices before any command runs.
var (
	configStore driven.ConfigStore
	noteService driving.NoteService
	chatService driving.ChatService
	chatBus     driven.ChatBus

	// closers are released in reverse order after the command finishes.
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Ask questions about your own notes",
	Long: `Recall keeps your notes indexed and answers questions about them.

Notes are chunked, embedded and stored in a per-owner vector index.
Asking a question retrieves the most relevant chunks from your notes
and streams an answer grounded on them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.recall/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the configured adapters into the core services.
func initServices() error {
	configDir, err := defaultConfigDir()
	if err != nil {
		return err
	}
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = cfg

	embedder, completion, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close, completion.Close)

	noteStore, index, err := buildStorage(cfg, embedder)
	if err != nil {
		return err
	}
	closers = append(closers, noteStore.Close)

	manager := services.NewIndexManager(index, noteStore)
	closers = append(closers, manager.Close)

	bus := events.NewBus()
	closers = append(closers, bus.Close)

	chatBus = bus
	noteService = services.NewNoteService(noteStore, manager)
	chatService = services.NewChatOrchestrator(manager, completion, bus)

	return nil
}

// buildProviders selects the embedding and completion providers from
// config. OpenAI is used when an API key is configured, Ollama
// otherwise.
func buildProviders(cfg driven.ConfigStore) (driven.EmbeddingService, driven.CompletionService, error) {
	provider := cfg.GetString("provider.name")
	apiKey := cfg.GetString("provider.openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}
	logger.Debug("Provider: %s", provider)

	switch provider {
	case "openai":
		embedder, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey: apiKey,
			Model:  cfg.GetString("provider.openai.embedding_model"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openai embedding: %w", err)
		}
		completion, err := completionopenai.NewCompletionService(completionopenai.Config{
			APIKey: apiKey,
			Model:  cfg.GetString("provider.openai.chat_model"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openai completion: %w", err)
		}
		return embedder, completion, nil

	case "ollama":
		embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: cfg.GetString("provider.ollama.base_url"),
			Model:   cfg.GetString("provider.ollama.embedding_model"),
		})
		completion, err := completionollama.NewCompletionService(completionollama.Config{
			BaseURL: cfg.GetString("provider.ollama.base_url"),
			Model:   cfg.GetString("provider.ollama.chat_model"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ollama completion: %w", err)
		}
		return embedder, completion, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want openai or ollama)", provider)
	}
}

// buildStorage selects the note store and vector index backend.
// SQLite is the default; "memory" keeps everything in-process and
// rebuilds the index on every run.
func buildStorage(
	cfg driven.ConfigStore, embedder driven.EmbeddingService,
) (driven.NoteStore, driven.VectorIndex, error) {
	backend := cfg.GetString("storage.backend")
	if backend == "" {
		backend = "sqlite"
	}
	logger.Debug("Storage backend: %s", backend)

	splitter := chunker.New()

	switch backend {
	case "sqlite":
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		closers = append(closers, store.Close)
		index := vectordurable.NewIndex(splitter, embedder, store.SnapshotStore())
		return store.NoteStore(), index, nil

	case "memory":
		index := vectormemory.NewIndex(splitter, embedder)
		return storagememory.NewNoteStore(), index, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (want sqlite or memory)", backend)
	}
}

// closeServices releases wired resources in reverse wiring order.
func closeServices() error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}

// defaultConfigDir returns ~/.recall, creating it if needed.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".recall")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}
