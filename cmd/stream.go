package cmd

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/youtubeapi"
)

func newStreamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Manage live streams (the RTMP ingest points)",
	}
	cmd.AddCommand(
		newStreamListCmd(a),
		newStreamGetCmd(a),
		newStreamCreateCmd(a),
		newStreamUpdateCmd(a),
		newStreamDeleteCmd(a),
		newStreamHealthCmd(a),
		newStreamWatchCmd(a),
		newStreamTestCmd(a),
	)
	return cmd
}

var streamColumns = []Column[youtubeapi.LiveStream]{
	{Header: "ID", Value: func(s youtubeapi.LiveStream) string { return s.ID }},
	{Header: "Title", Value: func(s youtubeapi.LiveStream) string { return s.Title }},
	{Header: "Resolution", Value: func(s youtubeapi.LiveStream) string { return orDash(string(s.Resolution)) }},
	{Header: "FPS", Value: func(s youtubeapi.LiveStream) string { return orDash(string(s.FrameRate)) }},
	{Header: "Health", Value: func(s youtubeapi.LiveStream) string { return orDash(string(s.Health)) }},
	{Header: "Reusable", Value: func(s youtubeapi.LiveStream) string { return strconv.FormatBool(s.IsReusable) }},
}

func streamFields(s youtubeapi.LiveStream) [][2]string {
	return [][2]string{
		{"ID", s.ID},
		{"Title", s.Title},
		{"Description", orDash(s.Description)},
		{"Resolution", orDash(string(s.Resolution))},
		{"Frame rate", orDash(string(s.FrameRate))},
		{"Health", orDash(string(s.Health))},
		{"Reusable", strconv.FormatBool(s.IsReusable)},
		{"RTMP URL", orDash(s.RTMPURL())},
		{"RTMPS address", orDash(s.RTMPSAddress)},
		{"Stream key", orDash(s.StreamName)},
	}
}

func newStreamListCmd(a *app) *cobra.Command {
	var (
		maxResults int64
		pageToken  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the channel's streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			page, err := api.ListStreams(cmd.Context(), maxResults, pageToken)
			if err != nil {
				return err
			}
			if err := renderList(a.out, page.Items, streamColumns); err != nil {
				return err
			}
			pageFooter(a.out, page.NextPageToken)
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxResults, "max-results", 25, "Page size (1-50)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continuation token from a previous page")
	return cmd
}

func newStreamGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <stream-id>",
		Short: "Show one stream, including its ingest URL and key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			s, err := api.GetStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderObject(a.out, s.ID, s, streamFields(s))
		},
	}
}

func newStreamCreateCmd(a *app) *cobra.Command {
	var (
		title      string
		resolution string
		frameRate  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a reusable stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			s, err := api.CreateStream(cmd.Context(), title,
				youtubeapi.StreamResolution(resolution), youtubeapi.StreamFrameRate(frameRate))
			if err != nil {
				return err
			}
			return renderObject(a.out, s.ID, s, streamFields(s))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Stream title")
	cmd.Flags().StringVar(&resolution, "resolution", string(youtubeapi.Res1080p),
		"Ingest resolution (240p-2160p or variable)")
	cmd.Flags().StringVar(&frameRate, "fps", string(youtubeapi.FPS30),
		"Ingest frame rate: 30fps, 60fps, or variable")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newStreamUpdateCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "update <stream-id>",
		Short: "Rename a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			s, err := api.UpdateStream(cmd.Context(), args[0], title)
			if err != nil {
				return err
			}
			return renderObject(a.out, s.ID, s, streamFields(s))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newStreamDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <stream-id>",
		Short: "Delete a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.DeleteStream(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted stream %s.\n", args[0])
			return nil
		},
	}
}

func newStreamHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health <stream-id>",
		Short: "Show a stream's current health and configuration issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			s, err := api.GetStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fields := [][2]string{
				{"Stream", s.ID},
				{"Health", orDash(string(s.Health))},
			}
			for _, issue := range s.Issues {
				fields = append(fields, [2]string{
					fmt.Sprintf("Issue (%s)", issue.Severity),
					fmt.Sprintf("%s: %s", issue.Type, issue.Reason),
				})
			}
			return renderObject(a.out, s.ID, s, fields)
		},
	}
}

// newStreamTestCmd sends an ffmpeg test pattern to the stream's ingest so the
// pipeline can be verified end to end without a real encoder.
func newStreamTestCmd(a *app) *cobra.Command {
	var (
		duration time.Duration
		secure   bool
	)
	cmd := &cobra.Command{
		Use:   "test <stream-id>",
		Short: "Push an ffmpeg test pattern to the stream ingest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			s, err := api.GetStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			url := s.RTMPURL()
			if secure && s.RTMPSAddress != "" && s.StreamName != "" {
				url = s.RTMPSAddress + "/" + s.StreamName
			}
			if url == "" {
				return fmt.Errorf("stream %s has no ingest address", s.ID)
			}
			if _, err := exec.LookPath("ffmpeg"); err != nil {
				return fmt.Errorf("ffmpeg not found in PATH: %w", err)
			}
			seconds := fmt.Sprintf("%d", int(duration.Seconds()))
			args2 := []string{
				"-re",
				"-f", "lavfi", "-i", "testsrc=size=1280x720:rate=30",
				"-f", "lavfi", "-i", "sine=frequency=440:sample_rate=44100",
				"-t", seconds,
				"-c:v", "libx264", "-preset", "veryfast", "-b:v", "2500k",
				"-c:a", "aac", "-b:a", "128k",
				"-f", "flv", url,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sending %s test pattern to %s\n", duration, s.ID)
			ff := exec.CommandContext(cmd.Context(), "ffmpeg", args2...)
			ff.Stdout = cmd.OutOrStdout()
			ff.Stderr = cmd.ErrOrStderr()
			if err := ff.Run(); err != nil {
				return fmt.Errorf("ffmpeg: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test pattern finished.")
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "How long to stream the pattern")
	cmd.Flags().BoolVar(&secure, "secure", false, "Use the RTMPS ingest address")
	return cmd
}
