package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

var (
	queryTopK      int
	querySources   []string
	queryJSON      bool
	queryReasoning bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question grounded in the knowledge base",
	Long: `Retrieves the most relevant chunks from the knowledge base and
generates an answer grounded in them, with numbered citations back to
the sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of candidate chunks to retrieve (0 = configured default)")
	queryCmd.Flags().StringSliceVar(&querySources, "source", nil, "restrict retrieval to these source IDs")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	queryCmd.Flags().BoolVar(&queryReasoning, "reasoning", false, "show the reasoning trace")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	opts := domain.QueryOptions{
		TopK:      queryTopK,
		SourceIDs: querySources,
		MinScore:  -1,
	}

	answer, err := answerService.Answer(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
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
	if queryReasoning && answer.Reasoning != "" {
		cmd.Println("Reasoning:")
		cmd.Println(answer.Reasoning)
		cmd.Println()
	}

	cmd.Println(answer.Answer)

	if len(answer.Citations) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Sources:")
	for _, c := range answer.Citations {
		cmd.Printf("  [%d] %s (%s, score %.2f)\n", c.Number, c.DisplayName, c.Kind, c.BestScore)
	}

	return nil
}
