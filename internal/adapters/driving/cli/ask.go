package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	askOwner   string
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your notes",
	Long: `Asks a question answered from your own notes.

The most relevant note chunks are retrieved first, then the answer is
generated from them and streamed to the terminal. Notes belonging to
other owners are never consulted.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askOwner, "owner", "o", "", "owner whose notes to answer from (required)")
	askCmd.Flags().BoolVar(&askSources, "sources", true, "print the retrieved note chunks before the answer")
	_ = askCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if chatService == nil || chatBus == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmdContext(cmd)

	// Subscribe before asking so no event can slip past.
	sub := chatBus.Subscribe(askOwner)
	defer sub.Close()

	sources, err := chatService.AskQuestion(ctx, domain.ChatRequest{
		Question: question,
		OwnerID:  askOwner,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askSources {
		printSources(cmd, sources)
	}

	return streamAnswer(ctx, cmd, sub.Events())
}

func printSources(cmd *cobra.Command, sources []domain.ScoredChunk) {
	if len(sources) == 0 {
		cmd.Println("No matching notes.")
		cmd.Println()
		return
	}

	cmd.Println("Sources:")
	for i, source := range sources {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, source.Metadata.Title, source.Score)
	}
	cmd.Println()
}

// streamAnswer prints events until the answer ends or fails.
func streamAnswer(ctx context.Context, cmd *cobra.Command, eventCh <-chan domain.ChatEvent) error {
	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return nil
			}
			switch event.Type {
			case domain.ChatEventStart:
				// Nothing to print; tokens follow.
			case domain.ChatEventToken:
				cmd.Print(event.Text)
			case domain.ChatEventEnd:
				cmd.Println()
				return nil
			case domain.ChatEventError:
				cmd.Println()
				return fmt.Errorf("answer failed: %s", event.Error)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
