package cli

import (
	"errors"
	"strings"

	"todo-cli/internal/api"

	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message to the assistant",
		Long: strings.TrimSpace(`
Send a natural-language message to the assistant. The assistant can read and
mutate your task list server-side; any tool calls it made are included in the
output. Pass --conversation to continue an earlier exchange.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.TrimSpace(args[0])
			if msg == "" {
				return writeErr(errors.New("message is empty"))
			}
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			user := app.session.User()
			resp, err := app.client.SendChat(cmd.Context(), user.ID, api.ChatRequest{
				Message:        msg,
				ConversationID: conversationID,
			})
			if err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, resp)
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation id to continue")
	return cmd
}
