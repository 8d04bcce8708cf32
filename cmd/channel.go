package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/youtubeapi"
)

func newChannelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Inspect the authenticated channel",
	}
	cmd.AddCommand(newChannelMeCmd(a), newChannelListCmd(a))
	return cmd
}

var channelColumns = []Column[youtubeapi.Channel]{
	{Header: "ID", Value: func(c youtubeapi.Channel) string { return c.ID }},
	{Header: "Title", Value: func(c youtubeapi.Channel) string { return c.Title }},
	{Header: "URL", Value: func(c youtubeapi.Channel) string { return orDash(c.CustomURL) }},
	{Header: "Live Enabled", Value: func(c youtubeapi.Channel) string { return strconv.FormatBool(c.LiveStreaming) }},
}

func newChannelMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the channel the credentials belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			ch, err := api.MyChannel(cmd.Context())
			if err != nil {
				return err
			}
			if ch == nil {
				return fmt.Errorf("no channel is linked to these credentials")
			}
			return renderObject(a.out, ch.ID, ch, [][2]string{
				{"ID", ch.ID},
				{"Title", ch.Title},
				{"Custom URL", orDash(ch.CustomURL)},
				{"Live streaming enabled", strconv.FormatBool(ch.LiveStreaming)},
				{"Description", orDash(ch.Description)},
			})
		},
	}
}

func newChannelListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List channels the credentials can manage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			channels, err := api.ListManagedChannels(cmd.Context())
			if err != nil {
				return err
			}
			return renderList(a.out, channels, channelColumns)
		},
	}
}
