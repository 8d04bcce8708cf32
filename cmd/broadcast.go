package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/youtubeapi"
)

func newBroadcastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "broadcast",
		Aliases: []string{"bc"},
		Short:   "Manage live broadcasts (the viewer-facing events)",
	}
	cmd.AddCommand(
		newBroadcastListCmd(a),
		newBroadcastGetCmd(a),
		newBroadcastCreateCmd(a),
		newBroadcastUpdateCmd(a),
		newBroadcastDeleteCmd(a),
		newBroadcastBindCmd(a),
		newBroadcastTransitionCmd(a),
	)
	return cmd
}

var broadcastColumns = []Column[youtubeapi.Broadcast]{
	{Header: "ID", Value: func(b youtubeapi.Broadcast) string { return b.ID }},
	{Header: "Title", Value: func(b youtubeapi.Broadcast) string { return b.Title }},
	{Header: "Status", Value: func(b youtubeapi.Broadcast) string { return string(b.LifeCycle) }},
	{Header: "Privacy", Value: func(b youtubeapi.Broadcast) string { return string(b.Privacy) }},
	{Header: "Scheduled", Value: func(b youtubeapi.Broadcast) string { return fmtTime(b.ScheduledStart) }},
	{Header: "Stream", Value: func(b youtubeapi.Broadcast) string { return orDash(b.BoundStreamID) }},
}

func broadcastFields(b youtubeapi.Broadcast) [][2]string {
	return [][2]string{
		{"ID", b.ID},
		{"Title", b.Title},
		{"Description", orDash(b.Description)},
		{"Status", string(b.LifeCycle)},
		{"Privacy", string(b.Privacy)},
		{"Scheduled start", fmtTime(b.ScheduledStart)},
		{"Actual start", fmtTime(b.ActualStart)},
		{"Actual end", fmtTime(b.ActualEnd)},
		{"Bound stream", orDash(b.BoundStreamID)},
		{"Live chat", orDash(b.LiveChatID)},
		{"Watch URL", b.WatchURL()},
	}
}

func newBroadcastListCmd(a *app) *cobra.Command {
	var (
		status     string
		maxResults int64
		pageToken  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List broadcasts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			page, err := api.ListBroadcasts(cmd.Context(), youtubeapi.BroadcastStatus(status), maxResults, pageToken)
			if err != nil {
				return err
			}
			if err := renderList(a.out, page.Items, broadcastColumns); err != nil {
				return err
			}
			pageFooter(a.out, page.NextPageToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(youtubeapi.BroadcastAll),
		"Filter: all, active, completed, or upcoming")
	cmd.Flags().Int64Var(&maxResults, "max-results", 25, "Page size (1-50)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continuation token from a previous page")
	return cmd
}

func newBroadcastGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <broadcast-id>",
		Short: "Show one broadcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			b, err := api.GetBroadcast(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderObject(a.out, b.ID, b, broadcastFields(b))
		},
	}
}

func newBroadcastCreateCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		start       string
		privacy     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a broadcast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled := time.Now()
			if start != "" {
				t, err := time.Parse(time.RFC3339, start)
				if err != nil {
					return fmt.Errorf("invalid --start (want RFC3339, e.g. 2026-01-02T15:04:05Z): %w", err)
				}
				scheduled = t
			}
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			b, err := api.CreateBroadcast(cmd.Context(), title, description, scheduled, youtubeapi.PrivacyStatus(privacy))
			if err != nil {
				return err
			}
			return renderObject(a.out, b.ID, b, broadcastFields(b))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Broadcast title")
	cmd.Flags().StringVar(&description, "description", "", "Broadcast description")
	cmd.Flags().StringVar(&start, "start", "", "Scheduled start (RFC3339, default now)")
	cmd.Flags().StringVar(&privacy, "privacy", string(youtubeapi.PrivacyPrivate),
		"Privacy: public, unlisted, or private")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBroadcastUpdateCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		privacy     string
	)
	cmd := &cobra.Command{
		Use:   "update <broadcast-id>",
		Short: "Update a broadcast's title, description, or privacy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd youtubeapi.BroadcastUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("privacy") {
				p := youtubeapi.PrivacyStatus(privacy)
				upd.Privacy = &p
			}
			if upd.Title == nil && upd.Description == nil && upd.Privacy == nil {
				return fmt.Errorf("nothing to update: pass --title, --description, or --privacy")
			}
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			b, err := api.UpdateBroadcast(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return renderObject(a.out, b.ID, b, broadcastFields(b))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&privacy, "privacy", "", "New privacy: public, unlisted, or private")
	return cmd
}

func newBroadcastDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <broadcast-id>",
		Short: "Delete a broadcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.DeleteBroadcast(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted broadcast %s.\n", args[0])
			return nil
		},
	}
}

func newBroadcastBindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bind <broadcast-id> <stream-id>",
		Short: "Bind a broadcast to a stream's RTMP ingest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			b, err := api.BindBroadcast(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return renderObject(a.out, b.ID, b, broadcastFields(b))
		},
	}
}

func newBroadcastTransitionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <broadcast-id> <testing|live|complete>",
		Short: "Move a broadcast through its lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := youtubeapi.LifeCycleStatus(args[1])
			switch status {
			case youtubeapi.LifeCycleTesting, youtubeapi.LifeCycleLive, youtubeapi.LifeCycleComplete:
			default:
				return fmt.Errorf("invalid transition %q (want testing, live, or complete)", args[1])
			}
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			b, err := api.TransitionBroadcast(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Broadcast %s is now %s.\n", b.ID, b.LifeCycle)
			return nil
		},
	}
}
