package youtubeapi

import (
	"context"
	"time"

	yt "google.golang.org/api/youtube/v3"
)

var broadcastParts = []string{"snippet", "status", "contentDetails"}

// GetBroadcast fetches a single broadcast by id.
func (c *Client) GetBroadcast(ctx context.Context, id string) (Broadcast, error) {
	resp, err := c.svc.LiveBroadcasts.List(broadcastParts).Id(id).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", id)
	}
	if len(resp.Items) == 0 {
		return Broadcast{}, notFound("Broadcast", id)
	}
	return broadcastFromAPI(resp.Items[0]), nil
}

// ListBroadcasts lists the authenticated user's broadcasts filtered by status.
func (c *Client) ListBroadcasts(ctx context.Context, status BroadcastStatus, maxResults int64, pageToken string) (PageResult[Broadcast], error) {
	if status == "" {
		status = BroadcastAll
	}
	call := c.svc.LiveBroadcasts.List(broadcastParts).
		BroadcastStatus(string(status)).
		MaxResults(clamp(maxResults, 1, 50)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return PageResult[Broadcast]{}, wrapAPIError(err, "Broadcast", "")
	}
	out := PageResult[Broadcast]{
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	for _, item := range resp.Items {
		out.Items = append(out.Items, broadcastFromAPI(item))
	}
	out.TotalResults = int64(len(out.Items))
	if resp.PageInfo != nil {
		out.TotalResults = resp.PageInfo.TotalResults
	}
	return out, nil
}

// CreateBroadcast schedules a new broadcast with auto-start and auto-stop
// enabled, so going live follows the bound stream's ingest state.
func (c *Client) CreateBroadcast(ctx context.Context, title, description string, scheduledStart time.Time, privacy PrivacyStatus) (Broadcast, error) {
	if privacy == "" {
		privacy = PrivacyPrivate
	}
	body := &yt.LiveBroadcast{
		Snippet: &yt.LiveBroadcastSnippet{
			Title:              title,
			Description:        description,
			ScheduledStartTime: scheduledStart.UTC().Format(time.RFC3339),
		},
		Status: &yt.LiveBroadcastStatus{PrivacyStatus: string(privacy)},
		ContentDetails: &yt.LiveBroadcastContentDetails{
			EnableAutoStart: true,
			EnableAutoStop:  true,
		},
	}
	resp, err := c.svc.LiveBroadcasts.Insert(broadcastParts, body).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", "")
	}
	return broadcastFromAPI(resp), nil
}

// BroadcastUpdate carries the optional fields of UpdateBroadcast; nil fields
// keep the current value.
type BroadcastUpdate struct {
	Title       *string
	Description *string
	Privacy     *PrivacyStatus
}

// UpdateBroadcast applies a partial update. The current state is fetched
// first so unset fields are preserved through the full-replace API call.
func (c *Client) UpdateBroadcast(ctx context.Context, id string, upd BroadcastUpdate) (Broadcast, error) {
	resp, err := c.svc.LiveBroadcasts.List(broadcastParts).Id(id).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", id)
	}
	if len(resp.Items) == 0 {
		return Broadcast{}, notFound("Broadcast", id)
	}
	current := resp.Items[0]
	if upd.Title != nil {
		current.Snippet.Title = *upd.Title
	}
	if upd.Description != nil {
		current.Snippet.Description = *upd.Description
	}
	if upd.Privacy != nil {
		current.Status.PrivacyStatus = string(*upd.Privacy)
	}
	body := &yt.LiveBroadcast{Id: id, Snippet: current.Snippet, Status: current.Status}
	updated, err := c.svc.LiveBroadcasts.Update([]string{"snippet", "status"}, body).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", id)
	}
	return broadcastFromAPI(updated), nil
}

// DeleteBroadcast removes a broadcast.
func (c *Client) DeleteBroadcast(ctx context.Context, id string) error {
	if err := c.svc.LiveBroadcasts.Delete(id).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, "Broadcast", id)
	}
	return nil
}

// BindBroadcast attaches an RTMP stream to a broadcast as its video source.
func (c *Client) BindBroadcast(ctx context.Context, broadcastID, streamID string) (Broadcast, error) {
	resp, err := c.svc.LiveBroadcasts.Bind(broadcastID, broadcastParts).StreamId(streamID).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", broadcastID)
	}
	return broadcastFromAPI(resp), nil
}

// TransitionBroadcast moves a broadcast to a new lifecycle status.
// Valid transitions: created -> testing -> live -> complete.
func (c *Client) TransitionBroadcast(ctx context.Context, broadcastID string, status LifeCycleStatus) (Broadcast, error) {
	resp, err := c.svc.LiveBroadcasts.Transition(string(status), broadcastID, broadcastParts).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrapAPIError(err, "Broadcast", broadcastID)
	}
	return broadcastFromAPI(resp), nil
}

// FindBoundBroadcast locates the active broadcast bound to streamID,
// preferring one that is already live over ready/testing. Returns nil when
// nothing is bound.
func (c *Client) FindBoundBroadcast(ctx context.Context, streamID string) (*Broadcast, error) {
	page, err := c.ListBroadcasts(ctx, BroadcastActive, 50, "")
	if err != nil {
		return nil, err
	}
	var fallback *Broadcast
	for i := range page.Items {
		b := page.Items[i]
		if b.BoundStreamID != streamID {
			continue
		}
		if b.LifeCycle == LifeCycleLive {
			return &b, nil
		}
		if fallback == nil && (b.LifeCycle == LifeCycleReady || b.LifeCycle == LifeCycleTesting) {
			fallback = &b
		}
	}
	return fallback, nil
}
