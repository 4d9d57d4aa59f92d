// Package cli implements the docsage command-line interface.
//
// Commands hold no business logic; they parse flags, call the
// knowledge-base service through its driving port and format results.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/ai"
	configfile "github.com/docsage-labs/docsage-cli/internal/adapters/driven/config/file"
	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/vectorstore"
	"github.com/docsage-labs/docsage-cli/internal/chunker"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/core/services"
	"github.com/docsage-labs/docsage-cli/internal/extractors"
	"github.com/docsage-labs/docsage-cli/internal/logger"
	"github.com/docsage-labs/docsage-cli/internal/tokenizer"
)

// version is set from the build by Execute.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Wired services, populated by initServices before a command runs.
var (
	knowledgeBase driving.KnowledgeBase
	settings      domain.Settings

	aiServices *ai.Services
	store      driven.VectorStore
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Ask questions about your documents",
	Long: `Docsage indexes PDF, DOCX, Markdown and plain-text documents into a
local knowledge base and answers questions grounded in their content,
with citations back to the source passages.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docsage)")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// initServices loads configuration and wires the knowledge base.
// Commands that need no services skip the wiring.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	// Already wired (tests inject their own services).
	if knowledgeBase != nil {
		return nil
	}

	configStore, err := configfile.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settings, err = configStore.Load()
	if err != nil {
		return err
	}
	logger.Debug("Config loaded from %s", configStore.Path())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	aiServices, err = ai.CreateServices(ctx, settings)
	if err != nil {
		return err
	}

	store, err = vectorstore.Create(ctx, settings)
	if err != nil {
		aiServices.Close()
		return err
	}

	knowledgeBase = services.NewKnowledgeBaseService(
		extractors.NewDefaultRegistry(),
		newChunker(),
		aiServices.Embedding,
		store,
		aiServices.Generation,
		settings,
	)
	return nil
}

// newChunker builds the chunker with the configured bounds. The BPE
// tokenizer needs its encoding data; if that is unavailable the
// heuristic tokenizer keeps ingestion working with approximate counts.
func newChunker() *chunker.Chunker {
	var tok driven.Tokenizer
	tok, err := tokenizer.NewTiktoken(tokenizer.DefaultEncoding)
	if err != nil {
		logger.Warn("BPE tokenizer unavailable (%v), using heuristic token counts", err)
		tok = tokenizer.NewHeuristic()
	}

	return chunker.New(tok,
		chunker.WithBounds(settings.Chunking.MinTokens, settings.Chunking.MaxTokens),
		chunker.WithOverlap(settings.Chunking.OverlapTokens),
	)
}

// shutdown releases wired services.
func shutdown() {
	if store != nil {
		store.Close()
		store = nil
	}
	if aiServices != nil {
		aiServices.Close()
		aiServices = nil
	}
}
