package cli

import (
	"github.com/spf13/cobra"

	"sqlchat-go/internal/service"
	"sqlchat-go/internal/tui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd.Context())
			conv := service.NewConversation(app.AIService, app.Logger)
			return tui.Run(cmd.Context(), conv, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
