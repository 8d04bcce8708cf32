package youtubeapi

import (
	"context"

	yt "google.golang.org/api/youtube/v3"
)

// ListModerators lists moderators for a live chat.
func (c *Client) ListModerators(ctx context.Context, liveChatID string, maxResults int64, pageToken string) (PageResult[ChatModerator], error) {
	call := c.svc.LiveChatModerators.List(liveChatID, []string{"snippet"}).
		MaxResults(clamp(maxResults, 1, 50)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return PageResult[ChatModerator]{}, wrapAPIError(err, "Moderator", liveChatID)
	}
	out := PageResult[ChatModerator]{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		out.Items = append(out.Items, moderatorFromAPI(item))
	}
	out.TotalResults = int64(len(out.Items))
	if resp.PageInfo != nil {
		out.TotalResults = resp.PageInfo.TotalResults
	}
	return out, nil
}

// AddModerator grants a channel moderator rights in a live chat.
func (c *Client) AddModerator(ctx context.Context, liveChatID, channelID string) (ChatModerator, error) {
	body := &yt.LiveChatModerator{
		Snippet: &yt.LiveChatModeratorSnippet{
			LiveChatId:       liveChatID,
			ModeratorDetails: &yt.ChannelProfileDetails{ChannelId: channelID},
		},
	}
	resp, err := c.svc.LiveChatModerators.Insert([]string{"snippet"}, body).Context(ctx).Do()
	if err != nil {
		return ChatModerator{}, wrapAPIError(err, "Moderator", channelID)
	}
	return moderatorFromAPI(resp), nil
}

// RemoveModerator revokes a moderator grant by its resource id (not the
// channel id).
func (c *Client) RemoveModerator(ctx context.Context, moderatorID string) error {
	if err := c.svc.LiveChatModerators.Delete(moderatorID).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, "Moderator", moderatorID)
	}
	return nil
}
