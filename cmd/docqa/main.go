// Command docqa is the document question-answering CLI and API server.
// This is the composition root: every adapter is constructed here and
// handed to the command tree explicitly.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/llm/groq"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/vectorfile"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driving/cli"
	"github.com/docqa-labs/docqa-cli/internal/chunker"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/services"
	"github.com/docqa-labs/docqa-cli/internal/extractors"
	"github.com/docqa-labs/docqa-cli/internal/extractors/docx"
	"github.com/docqa-labs/docqa-cli/internal/extractors/pdf"
	"github.com/docqa-labs/docqa-cli/internal/extractors/plaintext"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	root := cli.NewRootCmd(version, buildApp)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildApp constructs every adapter and service from the configuration.
func buildApp(cfg file.Config) (*cli.App, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	vectors, err := vectorfile.NewStore(filepath.Join(dataDir, "vectors"))
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	docs, err := sqlite.NewStore(dataDir)
	if err != nil {
		vectors.Close()
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		vectors.Close()
		docs.Close()
		return nil, err
	}

	// The LLM is optional: without a key, ask falls back to retrieval only.
	var llm driven.LLMService
	if cfg.LLM.APIKey != "" {
		llm, err = groq.NewLLMService(groq.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			vectors.Close()
			docs.Close()
			return nil, fmt.Errorf("configuring llm: %w", err)
		}
	} else {
		logger.Info("No GROQ_API_KEY configured, answers fall back to retrieval only")
	}

	registry := extractors.NewRegistry(plaintext.New(), pdf.New(), docx.New())
	ch := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.ChunkOverlap),
	)

	app := &cli.App{
		Config: cfg,
		Ingest: services.NewIngestService(
			registry, ch, embedder, vectors, docs,
			int64(cfg.Server.MaxFileSizeMB)<<20,
		),
		Query: services.NewQueryService(
			embedder, vectors, docs, llm,
			cfg.Retrieval.TopK, cfg.Retrieval.SimilarityThreshold,
		),
		Documents:  services.NewDocumentService(vectors, docs),
		Extensions: registry.SupportedExtensions(),
		Closers:    []io.Closer{vectors, docs, embedder},
	}
	if llm != nil {
		app.Closers = append(app.Closers, llm)
	}
	return app, nil
}

// buildEmbedder selects the embedding provider from configuration.
func buildEmbedder(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring openai embeddings: %w", err)
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
