package youtubeapi

import (
	"context"

	yt "google.golang.org/api/youtube/v3"
)

// ListChatMessages lists messages in a live chat. The liveChatID comes from a
// broadcast's LiveChatID field.
func (c *Client) ListChatMessages(ctx context.Context, liveChatID string, maxResults int64, pageToken string) (PageResult[ChatMessage], error) {
	call := c.svc.LiveChatMessages.List(liveChatID, []string{"snippet", "authorDetails"}).
		MaxResults(clamp(maxResults, 1, 2000)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return PageResult[ChatMessage]{}, wrapAPIError(err, "ChatMessage", liveChatID)
	}
	out := PageResult[ChatMessage]{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		out.Items = append(out.Items, chatMessageFromAPI(item))
	}
	out.TotalResults = int64(len(out.Items))
	if resp.PageInfo != nil {
		out.TotalResults = resp.PageInfo.TotalResults
	}
	return out, nil
}

// SendChatMessage posts a text message to a live chat.
func (c *Client) SendChatMessage(ctx context.Context, liveChatID, text string) (ChatMessage, error) {
	body := &yt.LiveChatMessage{
		Snippet: &yt.LiveChatMessageSnippet{
			LiveChatId:         liveChatID,
			Type:               "textMessageEvent",
			TextMessageDetails: &yt.LiveChatTextMessageDetails{MessageText: text},
		},
	}
	resp, err := c.svc.LiveChatMessages.Insert([]string{"snippet", "authorDetails"}, body).Context(ctx).Do()
	if err != nil {
		return ChatMessage{}, wrapAPIError(err, "ChatMessage", liveChatID)
	}
	return chatMessageFromAPI(resp), nil
}

// DeleteChatMessage removes a chat message. Only messages in chats the
// authenticated user moderates (or their own) can be deleted.
func (c *Client) DeleteChatMessage(ctx context.Context, messageID string) error {
	if err := c.svc.LiveChatMessages.Delete(messageID).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, "ChatMessage", messageID)
	}
	return nil
}
