package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

var (
	askTopK     int
	askDocument string
	askJSON     bool
	askSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Retrieves the most relevant chunks for the question and generates an
answer grounded in them, with citations back to the source passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (1-10, 0 = configured default)")
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "restrict retrieval to one document name")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show retrieved chunks with scores")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	answer, err := knowledgeBase.Answer(ctx, args[0], domain.QueryOptions{
		TopK:           askTopK,
		DocumentFilter: askDocument,
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range answer.Citations {
			cmd.Printf("  [%d] %s (%s)\n", i+1, c.DocumentName, c.Location)
		}
	}

	if answer.DroppedCitations > 0 {
		cmd.Printf("\nNote: %d citation(s) referencing unknown sources were dropped.\n",
			answer.DroppedCitations)
	}

	if askSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Retrieved chunks:")
		for _, sc := range answer.Sources {
			cmd.Printf("  %.3f  %s (%s)\n", sc.Score, sc.Chunk.DocumentName, sc.Chunk.Location)
		}
	}

	return nil
}
