package youtubeapi

import "context"

var channelParts = []string{"snippet", "status"}

// MyChannel returns the authenticated user's own channel, or nil if no
// channel is linked to the account.
func (c *Client) MyChannel(ctx context.Context) (*Channel, error) {
	resp, err := c.svc.Channels.List(channelParts).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "Channel", "")
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	ch := channelFromAPI(resp.Items[0])
	return &ch, nil
}

// ListManagedChannels lists channels the authenticated user manages,
// including brand account channels.
func (c *Client) ListManagedChannels(ctx context.Context) ([]Channel, error) {
	resp, err := c.svc.Channels.List(channelParts).ManagedByMe(true).MaxResults(50).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "Channel", "")
	}
	out := make([]Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, channelFromAPI(item))
	}
	return out, nil
}
