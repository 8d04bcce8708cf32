package youtubeapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/onnwee/stream-tools/testutil"
	"github.com/onnwee/stream-tools/watch"
)

func newTestClient(t *testing.T) (*Client, *testutil.MockYouTubeServer) {
	t.Helper()
	srv := testutil.NewMockYouTubeServer(t)
	svc, err := yt.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return NewWithService(svc), srv
}

func TestGetBroadcastMapsFields(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveBroadcasts", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "bc1" {
			t.Errorf("id param = %q, want bc1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{
			"id":"bc1",
			"snippet":{"title":"Friday Show","description":"d","liveChatId":"chat1","scheduledStartTime":"2026-08-28T20:00:00Z"},
			"status":{"lifeCycleStatus":"live","privacyStatus":"public"},
			"contentDetails":{"boundStreamId":"s1"}
		}]}`))
	})

	b, err := client.GetBroadcast(context.Background(), "bc1")
	if err != nil {
		t.Fatalf("GetBroadcast: %v", err)
	}
	if b.ID != "bc1" || b.Title != "Friday Show" {
		t.Errorf("broadcast = %+v", b)
	}
	if b.LifeCycle != LifeCycleLive || b.Privacy != PrivacyPublic {
		t.Errorf("lifecycle/privacy = %s/%s", b.LifeCycle, b.Privacy)
	}
	if b.BoundStreamID != "s1" || b.LiveChatID != "chat1" {
		t.Errorf("bound stream/chat = %s/%s", b.BoundStreamID, b.LiveChatID)
	}
	if b.ScheduledStart == nil {
		t.Error("scheduled start not parsed")
	}
	if b.WatchURL() != "https://youtube.com/live/bc1" {
		t.Errorf("watch URL = %s", b.WatchURL())
	}
}

func TestGetBroadcastNotFound(t *testing.T) {
	client, srv := newTestClient(t)
	srv.HandleJSON("/youtube/v3/liveBroadcasts", map[string]any{"items": []any{}})

	_, err := client.GetBroadcast(context.Background(), "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.ResourceID != "missing" {
		t.Errorf("resource id = %s", nf.ResourceID)
	}
}

func TestAPIErrorCarriesReason(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveBroadcasts", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteAPIError(w, http.StatusForbidden, "quotaExceeded", "quota exceeded")
	})

	_, err := client.GetBroadcast(context.Background(), "bc1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Reason != "quotaExceeded" {
		t.Errorf("api error = %+v", apiErr)
	}
}

func TestAPI404MapsToNotFound(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveStreams", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteAPIError(w, http.StatusNotFound, "liveStreamNotFound", "no such stream")
	})

	_, err := client.GetStream(context.Background(), "s-missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestListBroadcastsPassesTokensThrough(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveBroadcasts", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("broadcastStatus") != "upcoming" {
			t.Errorf("broadcastStatus = %q", q.Get("broadcastStatus"))
		}
		if q.Get("pageToken") != "tok-in" {
			t.Errorf("pageToken = %q", q.Get("pageToken"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items":[{"id":"bc1","snippet":{"title":"a"}},{"id":"bc2","snippet":{"title":"b"}}],
			"nextPageToken":"tok-next",
			"pageInfo":{"totalResults":7}
		}`))
	})

	page, err := client.ListBroadcasts(context.Background(), BroadcastUpcoming, 10, "tok-in")
	if err != nil {
		t.Fatalf("ListBroadcasts: %v", err)
	}
	if len(page.Items) != 2 || page.NextPageToken != "tok-next" || page.TotalResults != 7 {
		t.Errorf("page = %+v", page)
	}
}

func TestGetStreamMapsHealthAndIngest(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveStreams", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{
			"id":"s1",
			"snippet":{"title":"Radio"},
			"cdn":{"resolution":"1080p","frameRate":"30fps","ingestionInfo":{
				"ingestionAddress":"rtmp://a.rtmp.youtube.com/live2",
				"rtmpsIngestionAddress":"rtmps://a.rtmps.youtube.com/live2",
				"streamName":"key-123"}},
			"status":{"healthStatus":{"status":"bad","configurationIssues":[
				{"type":"audioBitrate","severity":"warning","reason":"low bitrate"}]}},
			"contentDetails":{"isReusable":true}
		}]}`))
	})

	s, err := client.GetStream(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetStream: %v", err)
	}
	if s.Resolution != Res1080p || s.FrameRate != FPS30 || !s.IsReusable {
		t.Errorf("stream = %+v", s)
	}
	if s.Health != watch.StatusBad || len(s.Issues) != 1 || s.Issues[0].Type != "audioBitrate" {
		t.Errorf("health = %s issues = %+v", s.Health, s.Issues)
	}
	if s.RTMPURL() != "rtmp://a.rtmp.youtube.com/live2/key-123" {
		t.Errorf("rtmp url = %s", s.RTMPURL())
	}
}

func TestHealthPollerMapsEmptyHealthToNoData(t *testing.T) {
	client, srv := newTestClient(t)
	srv.HandleJSON("/youtube/v3/liveStreams", map[string]any{
		"items": []map[string]any{{"id": "s1"}},
	})

	poller := &HealthPoller{Client: client, StreamID: "s1"}
	sample, err := poller.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if sample.Status != watch.StatusNoData {
		t.Errorf("status = %s, want noData", sample.Status)
	}
}

func TestHealthPollerPropagatesFetchErrors(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveStreams", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteAPIError(w, http.StatusInternalServerError, "backendError", "transient")
	})

	poller := &HealthPoller{Client: client, StreamID: "s1"}
	if _, err := poller.Sample(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestFindBoundBroadcastPrefersLive(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveBroadcasts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"ready1","status":{"lifeCycleStatus":"ready"},"contentDetails":{"boundStreamId":"s1"}},
			{"id":"other","status":{"lifeCycleStatus":"live"},"contentDetails":{"boundStreamId":"s2"}},
			{"id":"live1","status":{"lifeCycleStatus":"live"},"contentDetails":{"boundStreamId":"s1"}}
		]}`))
	})

	b, err := client.FindBoundBroadcast(context.Background(), "s1")
	if err != nil {
		t.Fatalf("FindBoundBroadcast: %v", err)
	}
	if b == nil || b.ID != "live1" {
		t.Errorf("broadcast = %+v, want live1", b)
	}
}

func TestFindBoundBroadcastNoneBound(t *testing.T) {
	client, srv := newTestClient(t)
	srv.HandleJSON("/youtube/v3/liveBroadcasts", map[string]any{"items": []any{}})

	b, err := client.FindBoundBroadcast(context.Background(), "s1")
	if err != nil {
		t.Fatalf("FindBoundBroadcast: %v", err)
	}
	if b != nil {
		t.Errorf("broadcast = %+v, want nil", b)
	}
}

func TestSendChatMessage(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Handle("/youtube/v3/liveChat/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg1","snippet":{"type":"textMessageEvent",
			"textMessageDetails":{"messageText":"hello"}}}`))
	})

	msg, err := client.SendChatMessage(context.Background(), "chat1", "hello")
	if err != nil {
		t.Fatalf("SendChatMessage: %v", err)
	}
	if msg.ID != "msg1" || msg.Text != "hello" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMyChannelNilWhenUnlinked(t *testing.T) {
	client, srv := newTestClient(t)
	srv.HandleJSON("/youtube/v3/channels", map[string]any{"items": []any{}})

	ch, err := client.MyChannel(context.Background())
	if err != nil {
		t.Fatalf("MyChannel: %v", err)
	}
	if ch != nil {
		t.Errorf("channel = %+v, want nil", ch)
	}
}

func TestClampBoundsMaxResults(t *testing.T) {
	if got := clamp(0, 1, 50); got != 1 {
		t.Errorf("clamp(0) = %d", got)
	}
	if got := clamp(500, 1, 50); got != 50 {
		t.Errorf("clamp(500) = %d", got)
	}
	if got := clamp(25, 1, 50); got != 25 {
		t.Errorf("clamp(25) = %d", got)
	}
}
