package youtubeapi

import (
	"context"

	yt "google.golang.org/api/youtube/v3"

	"github.com/onnwee/stream-tools/watch"
)

var streamParts = []string{"snippet", "cdn", "status", "contentDetails"}

// GetStream fetches a single live stream by id.
func (c *Client) GetStream(ctx context.Context, id string) (LiveStream, error) {
	resp, err := c.svc.LiveStreams.List(streamParts).Id(id).Context(ctx).Do()
	if err != nil {
		return LiveStream{}, wrapAPIError(err, "Stream", id)
	}
	if len(resp.Items) == 0 {
		return LiveStream{}, notFound("Stream", id)
	}
	return streamFromAPI(resp.Items[0]), nil
}

// ListStreams lists all live streams owned by the authenticated user.
func (c *Client) ListStreams(ctx context.Context, maxResults int64, pageToken string) (PageResult[LiveStream], error) {
	call := c.svc.LiveStreams.List(streamParts).
		Mine(true).
		MaxResults(clamp(maxResults, 1, 50)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return PageResult[LiveStream]{}, wrapAPIError(err, "Stream", "")
	}
	out := PageResult[LiveStream]{
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	for _, item := range resp.Items {
		out.Items = append(out.Items, streamFromAPI(item))
	}
	out.TotalResults = int64(len(out.Items))
	if resp.PageInfo != nil {
		out.TotalResults = resp.PageInfo.TotalResults
	}
	return out, nil
}

// CreateStream provisions a new reusable RTMP ingest point.
func (c *Client) CreateStream(ctx context.Context, title string, resolution StreamResolution, frameRate StreamFrameRate) (LiveStream, error) {
	if resolution == "" {
		resolution = Res1080p
	}
	if frameRate == "" {
		frameRate = FPS30
	}
	body := &yt.LiveStream{
		Snippet: &yt.LiveStreamSnippet{Title: title},
		Cdn: &yt.CdnSettings{
			IngestionType: "rtmp",
			Resolution:    string(resolution),
			FrameRate:     string(frameRate),
		},
	}
	resp, err := c.svc.LiveStreams.Insert(streamParts, body).Context(ctx).Do()
	if err != nil {
		return LiveStream{}, wrapAPIError(err, "Stream", "")
	}
	return streamFromAPI(resp), nil
}

// UpdateStream renames a stream, preserving its CDN settings via a
// read-modify-write.
func (c *Client) UpdateStream(ctx context.Context, id, title string) (LiveStream, error) {
	resp, err := c.svc.LiveStreams.List(streamParts).Id(id).Context(ctx).Do()
	if err != nil {
		return LiveStream{}, wrapAPIError(err, "Stream", id)
	}
	if len(resp.Items) == 0 {
		return LiveStream{}, notFound("Stream", id)
	}
	current := resp.Items[0]
	current.Snippet.Title = title
	body := &yt.LiveStream{Id: id, Snippet: current.Snippet, Cdn: current.Cdn}
	updated, err := c.svc.LiveStreams.Update([]string{"snippet", "cdn"}, body).Context(ctx).Do()
	if err != nil {
		return LiveStream{}, wrapAPIError(err, "Stream", id)
	}
	return streamFromAPI(updated), nil
}

// DeleteStream removes a stream.
func (c *Client) DeleteStream(ctx context.Context, id string) error {
	if err := c.svc.LiveStreams.Delete(id).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, "Stream", id)
	}
	return nil
}

// HealthPoller adapts one stream's health status to the watch loop's Poller.
type HealthPoller struct {
	Client   *Client
	StreamID string
}

// Sample fetches the stream and reports its health. A missing health block
// maps to noData, matching what the API returns for a stream with no ingest.
func (p *HealthPoller) Sample(ctx context.Context) (watch.Sample, error) {
	stream, err := p.Client.GetStream(ctx, p.StreamID)
	if err != nil {
		return watch.Sample{}, err
	}
	status := stream.Health
	if status == "" {
		status = watch.StatusNoData
	}
	return watch.Sample{Status: status, Issues: stream.Issues}, nil
}
