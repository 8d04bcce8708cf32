package youtubeapi

import (
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/onnwee/stream-tools/watch"
)

// PrivacyStatus is a YouTube resource privacy setting.
type PrivacyStatus string

const (
	PrivacyPublic   PrivacyStatus = "public"
	PrivacyUnlisted PrivacyStatus = "unlisted"
	PrivacyPrivate  PrivacyStatus = "private"
)

// BroadcastStatus filters broadcast listings by current state.
type BroadcastStatus string

const (
	BroadcastAll       BroadcastStatus = "all"
	BroadcastActive    BroadcastStatus = "active"
	BroadcastCompleted BroadcastStatus = "completed"
	BroadcastUpcoming  BroadcastStatus = "upcoming"
)

// LifeCycleStatus is a broadcast lifecycle state.
// Flow: created -> ready -> testStarting -> testing -> liveStarting -> live -> complete.
type LifeCycleStatus string

const (
	LifeCycleComplete     LifeCycleStatus = "complete"
	LifeCycleCreated      LifeCycleStatus = "created"
	LifeCycleLive         LifeCycleStatus = "live"
	LifeCycleLiveStarting LifeCycleStatus = "liveStarting"
	LifeCycleReady        LifeCycleStatus = "ready"
	LifeCycleRevoked      LifeCycleStatus = "revoked"
	LifeCycleTestStarting LifeCycleStatus = "testStarting"
	LifeCycleTesting      LifeCycleStatus = "testing"
)

// StreamResolution is the configured ingest resolution of a live stream.
type StreamResolution string

const (
	Res240p     StreamResolution = "240p"
	Res360p     StreamResolution = "360p"
	Res480p     StreamResolution = "480p"
	Res720p     StreamResolution = "720p"
	Res1080p    StreamResolution = "1080p"
	Res1440p    StreamResolution = "1440p"
	Res2160p    StreamResolution = "2160p"
	ResVariable StreamResolution = "variable"
)

// StreamFrameRate is the configured ingest frame rate of a live stream.
type StreamFrameRate string

const (
	FPS30       StreamFrameRate = "30fps"
	FPS60       StreamFrameRate = "60fps"
	FPSVariable StreamFrameRate = "variable"
)

// PageResult is one page of a list call, with opaque continuation tokens
// passed through from the API.
type PageResult[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty"`
	PrevPageToken string `json:"prev_page_token,omitempty"`
	TotalResults  int64  `json:"total_results"`
}

// Broadcast is the viewer-facing live event. It must be bound to a stream
// (RTMP ingest) to go live.
type Broadcast struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ScheduledStart *time.Time      `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time      `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time      `json:"actual_start,omitempty"`
	ActualEnd      *time.Time      `json:"actual_end,omitempty"`
	Privacy        PrivacyStatus   `json:"privacy"`
	LifeCycle      LifeCycleStatus `json:"life_cycle_status"`
	LiveChatID     string          `json:"live_chat_id,omitempty"`
	BoundStreamID  string          `json:"bound_stream_id,omitempty"`
}

func broadcastFromAPI(b *yt.LiveBroadcast) Broadcast {
	out := Broadcast{ID: b.Id, Privacy: PrivacyPrivate, LifeCycle: LifeCycleCreated}
	if b.Snippet != nil {
		out.Title = b.Snippet.Title
		out.Description = b.Snippet.Description
		out.LiveChatID = b.Snippet.LiveChatId
		out.ScheduledStart = parseTime(b.Snippet.ScheduledStartTime)
		out.ScheduledEnd = parseTime(b.Snippet.ScheduledEndTime)
		out.ActualStart = parseTime(b.Snippet.ActualStartTime)
		out.ActualEnd = parseTime(b.Snippet.ActualEndTime)
	}
	if b.Status != nil {
		if b.Status.PrivacyStatus != "" {
			out.Privacy = PrivacyStatus(b.Status.PrivacyStatus)
		}
		if b.Status.LifeCycleStatus != "" {
			out.LifeCycle = LifeCycleStatus(b.Status.LifeCycleStatus)
		}
	}
	if b.ContentDetails != nil {
		out.BoundStreamID = b.ContentDetails.BoundStreamId
	}
	return out
}

// WatchURL is the public viewing link for the broadcast.
func (b Broadcast) WatchURL() string { return "https://youtube.com/live/" + b.ID }

// LiveStream is the RTMP ingest point: where streaming software sends video.
type LiveStream struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Resolution       StreamResolution `json:"resolution,omitempty"`
	FrameRate        StreamFrameRate  `json:"frame_rate,omitempty"`
	IngestionAddress string           `json:"ingestion_address,omitempty"`
	RTMPSAddress     string           `json:"rtmps_ingestion_address,omitempty"`
	StreamName       string           `json:"stream_name,omitempty"`
	Health           watch.Status     `json:"health_status,omitempty"`
	Issues           []watch.Issue    `json:"configuration_issues,omitempty"`
	IsReusable       bool             `json:"is_reusable"`
}

func streamFromAPI(s *yt.LiveStream) LiveStream {
	out := LiveStream{ID: s.Id}
	if s.Snippet != nil {
		out.Title = s.Snippet.Title
		out.Description = s.Snippet.Description
	}
	if s.Cdn != nil {
		out.Resolution = StreamResolution(s.Cdn.Resolution)
		out.FrameRate = StreamFrameRate(s.Cdn.FrameRate)
		if s.Cdn.IngestionInfo != nil {
			out.IngestionAddress = s.Cdn.IngestionInfo.IngestionAddress
			out.RTMPSAddress = s.Cdn.IngestionInfo.RtmpsIngestionAddress
			out.StreamName = s.Cdn.IngestionInfo.StreamName
		}
	}
	if s.ContentDetails != nil {
		out.IsReusable = s.ContentDetails.IsReusable
	}
	if s.Status != nil && s.Status.HealthStatus != nil {
		out.Health = watch.Status(s.Status.HealthStatus.Status)
		for _, issue := range s.Status.HealthStatus.ConfigurationIssues {
			out.Issues = append(out.Issues, watch.Issue{
				Type:        issue.Type,
				Severity:    issue.Severity,
				Reason:      issue.Reason,
				Description: issue.Description,
			})
		}
	}
	return out
}

// RTMPURL is the complete ingest URL for OBS/FFmpeg, or "" if either
// component is missing.
func (s LiveStream) RTMPURL() string {
	if s.IngestionAddress == "" || s.StreamName == "" {
		return ""
	}
	return s.IngestionAddress + "/" + s.StreamName
}

// ChatMessage is one live chat message.
type ChatMessage struct {
	ID              string     `json:"id"`
	AuthorChannelID string     `json:"author_channel_id"`
	AuthorName      string     `json:"author_display_name"`
	Text            string     `json:"message_text"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Type            string     `json:"type"`
}

func chatMessageFromAPI(m *yt.LiveChatMessage) ChatMessage {
	out := ChatMessage{ID: m.Id, Type: "textMessageEvent"}
	if m.Snippet != nil {
		if m.Snippet.Type != "" {
			out.Type = m.Snippet.Type
		}
		out.PublishedAt = parseTime(m.Snippet.PublishedAt)
		if m.Snippet.TextMessageDetails != nil {
			out.Text = m.Snippet.TextMessageDetails.MessageText
		}
	}
	if m.AuthorDetails != nil {
		out.AuthorChannelID = m.AuthorDetails.ChannelId
		out.AuthorName = m.AuthorDetails.DisplayName
	}
	return out
}

// ChatModerator is a live chat moderator grant. ID is the moderator resource
// id used for removal, not the channel id.
type ChatModerator struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channel_id"`
	DisplayName string `json:"display_name"`
}

func moderatorFromAPI(m *yt.LiveChatModerator) ChatModerator {
	out := ChatModerator{ID: m.Id}
	if m.Snippet != nil && m.Snippet.ModeratorDetails != nil {
		out.ChannelID = m.Snippet.ModeratorDetails.ChannelId
		out.DisplayName = m.Snippet.ModeratorDetails.DisplayName
	}
	return out
}

// ChatBan is a live chat ban, permanent or temporary.
type ChatBan struct {
	ID              string `json:"id"`
	ChannelID       string `json:"channel_id"`
	BanType         string `json:"ban_type"`
	DurationSeconds uint64 `json:"ban_duration_seconds,omitempty"`
}

func banFromAPI(b *yt.LiveChatBan) ChatBan {
	out := ChatBan{ID: b.Id, BanType: "permanent"}
	if b.Snippet != nil {
		if b.Snippet.Type != "" {
			out.BanType = b.Snippet.Type
		}
		out.DurationSeconds = b.Snippet.BanDurationSeconds
		if b.Snippet.BannedUserDetails != nil {
			out.ChannelID = b.Snippet.BannedUserDetails.ChannelId
		}
	}
	return out
}

// Channel is a YouTube channel owned or managed by the authenticated user.
type Channel struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CustomURL     string `json:"custom_url,omitempty"`
	LiveStreaming bool   `json:"is_live_streaming_enabled"`
}

func channelFromAPI(c *yt.Channel) Channel {
	out := Channel{ID: c.Id}
	if c.Snippet != nil {
		out.Title = c.Snippet.Title
		out.Description = c.Snippet.Description
		out.CustomURL = c.Snippet.CustomUrl
	}
	if c.Status != nil {
		out.LiveStreaming = c.Status.IsLinked
	}
	return out
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
