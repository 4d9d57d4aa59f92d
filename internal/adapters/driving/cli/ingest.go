package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index documents into the knowledge base",
	Long: `Extracts text from the given files, chunks it and indexes the chunks
with their embeddings. Supported formats: PDF, DOCX, Markdown, plain text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var failed int
	for _, path := range args {
		if err := ingestFile(ctx, cmd, path); err != nil {
			failed++
			cmd.PrintErrf("✗ %s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed", failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	doc, err := knowledgeBase.Ingest(ctx, &domain.RawDocument{
		Name:    filepath.Base(path),
		Content: content,
	})
	if err != nil {
		return err
	}

	cmd.Printf("✓ %s: %d chunk(s) indexed (%s)\n", doc.Name, doc.ChunkCount, doc.Format)
	return nil
}
