package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your notes",
	Long: `Starts an interactive session where every question is answered from
your notes. Conversation history is used to resolve follow-ups like
"what about the second one?" into standalone search queries.

Type 'exit' or press Ctrl-C to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	cmd.Println("Chatting with your notes. Type 'exit' or press Ctrl-C to quit.")
	cmd.Println()

	var history []domain.Exchange
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		cmd.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			break
		}

		answer, _, err := retrievalService.Ask(ctx, question, history)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}

		cmd.Printf("%s%s\n", boldCyan("Notes: "), answer)
		cmd.Println()

		history = append(history, domain.Exchange{User: question, Assistant: answer})
	}

	cmd.Println("\nBye.")
	return scanner.Err()
}
