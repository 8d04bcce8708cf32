package youtubeapi

import (
	"context"

	yt "google.golang.org/api/youtube/v3"
)

// BanUser bans a channel from a live chat. durationSeconds applies only to
// temporary bans; pass 0 for a permanent ban.
func (c *Client) BanUser(ctx context.Context, liveChatID, channelID, banType string, durationSeconds uint64) (ChatBan, error) {
	if banType == "" {
		banType = "permanent"
	}
	snippet := &yt.LiveChatBanSnippet{
		LiveChatId:        liveChatID,
		Type:              banType,
		BannedUserDetails: &yt.ChannelProfileDetails{ChannelId: channelID},
	}
	if banType == "temporary" && durationSeconds > 0 {
		snippet.BanDurationSeconds = durationSeconds
	}
	resp, err := c.svc.LiveChatBans.Insert([]string{"snippet"}, &yt.LiveChatBan{Snippet: snippet}).Context(ctx).Do()
	if err != nil {
		return ChatBan{}, wrapAPIError(err, "Ban", channelID)
	}
	return banFromAPI(resp), nil
}

// UnbanUser removes a ban by its resource id, restoring chat access.
func (c *Client) UnbanUser(ctx context.Context, banID string) error {
	if err := c.svc.LiveChatBans.Delete(banID).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, "Ban", banID)
	}
	return nil
}
