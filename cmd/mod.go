package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/youtubeapi"
)

func newModCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mod",
		Short: "Manage live chat moderators",
	}
	cmd.AddCommand(newModListCmd(a), newModAddCmd(a), newModRemoveCmd(a))
	return cmd
}

var moderatorColumns = []Column[youtubeapi.ChatModerator]{
	{Header: "ID", Value: func(m youtubeapi.ChatModerator) string { return m.ID }},
	{Header: "Channel", Value: func(m youtubeapi.ChatModerator) string { return m.ChannelID }},
	{Header: "Name", Value: func(m youtubeapi.ChatModerator) string { return m.DisplayName }},
}

func newModListCmd(a *app) *cobra.Command {
	var (
		maxResults int64
		pageToken  string
	)
	cmd := &cobra.Command{
		Use:   "list <broadcast-id>",
		Short: "List a broadcast's chat moderators",
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
			page, err := api.ListModerators(cmd.Context(), chatID, maxResults, pageToken)
			if err != nil {
				return err
			}
			if err := renderList(a.out, page.Items, moderatorColumns); err != nil {
				return err
			}
			pageFooter(a.out, page.NextPageToken)
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxResults, "max-results", 50, "Page size (1-50)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continuation token from a previous page")
	return cmd
}

func newModAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <broadcast-id> <channel-id>",
		Short: "Grant a channel moderator powers in a broadcast's chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			chatID, err := resolveChatID(cmd.Context(), api, args[0])
			if err != nil {
				return err
			}
			m, err := api.AddModerator(cmd.Context(), chatID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added moderator %s (grant id %s).\n", m.DisplayName, m.ID)
			return nil
		},
	}
}

func newModRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <moderator-id>",
		Short: "Revoke a moderator grant (use the grant id from 'mod list')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.RemoveModerator(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed moderator %s.\n", args[0])
			return nil
		},
	}
}
