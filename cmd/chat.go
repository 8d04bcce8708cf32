package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/youtubeapi"
)

// resolveChatID maps a broadcast id to its live chat id. Chat commands take
// broadcast ids because that is what operators have at hand.
func resolveChatID(ctx context.Context, api *youtubeapi.Client, broadcastID string) (string, error) {
	b, err := api.GetBroadcast(ctx, broadcastID)
	if err != nil {
		return "", err
	}
	if b.LiveChatID == "" {
		return "", fmt.Errorf("broadcast %s has no live chat (is it live or upcoming?)", broadcastID)
	}
	return b.LiveChatID, nil
}

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and post live chat messages",
	}
	cmd.AddCommand(newChatListCmd(a), newChatSendCmd(a), newChatDeleteCmd(a))
	return cmd
}

var chatColumns = []Column[youtubeapi.ChatMessage]{
	{Header: "ID", Value: func(m youtubeapi.ChatMessage) string { return m.ID }},
	{Header: "Time", Value: func(m youtubeapi.ChatMessage) string { return fmtTime(m.PublishedAt) }},
	{Header: "Author", Value: func(m youtubeapi.ChatMessage) string { return m.AuthorName }},
	{Header: "Message", Value: func(m youtubeapi.ChatMessage) string { return m.Text }},
}

func newChatListCmd(a *app) *cobra.Command {
	var (
		maxResults int64
		pageToken  string
	)
	cmd := &cobra.Command{
		Use:   "list <broadcast-id>",
		Short: "List recent chat messages for a broadcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			chatID, err := resolveChatID(cmd.Context(), api, args[0])
			if err != nil {
				return err
			}
			page, err := api.ListChatMessages(cmd.Context(), chatID, maxResults, pageToken)
			if err != nil {
				return err
			}
			if err := renderList(a.out, page.Items, chatColumns); err != nil {
				return err
			}
			pageFooter(a.out, page.NextPageToken)
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxResults, "max-results", 50, "Page size (1-2000)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continuation token from a previous page")
	return cmd
}

func newChatSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <broadcast-id> <message...>",
		Short: "Post a chat message as the authenticated channel",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			chatID, err := resolveChatID(cmd.Context(), api, args[0])
			if err != nil {
				return err
			}
			msg, err := api.SendChatMessage(cmd.Context(), chatID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent message %s.\n", msg.ID)
			return nil
		},
	}
}

func newChatDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Delete a chat message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.DeleteChatMessage(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted message %s.\n", args[0])
			return nil
		},
	}
}
