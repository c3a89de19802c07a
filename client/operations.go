package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/derek82511/line-bot-sdk/event"
)

// API paths.
const (
	pushPath      = "/v2/bot/message/push"
	multicastPath = "/v2/bot/message/multicast"
	replyPath     = "/v2/bot/message/reply"
)

// Batch-size limits imposed by the platform.
const (
	maxMessages   = 5
	maxRecipients = 150
)

// validateMessages enforces the 1-5 messages-per-call rule.
func validateMessages(messages []any) error {
	if len(messages) < 1 || len(messages) > maxMessages {
		return &ValidationError{Field: "messages", Message: "length must be between 1 and 5"}
	}
	return nil
}

// Push sends messages to a single recipient.
func (c *Client) Push(ctx context.Context, tenant, to string, messages []any) error {
	if to == "" {
		return &ValidationError{Field: "to", Message: "required"}
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	payload := pushPayload{To: to, Messages: messages}
	_, err := c.execute(ctx, tenant, "push", http.MethodPost, pushPath, payload)
	return err
}

// Multicast sends messages to up to 150 recipients in one call.
func (c *Client) Multicast(ctx context.Context, tenant string, to []string, messages []any) error {
	if len(to) < 1 || len(to) > maxRecipients {
		return &ValidationError{Field: "to", Message: "length must be between 1 and 150"}
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	payload := multicastPayload{To: to, Messages: messages}
	_, err := c.execute(ctx, tenant, "multicast", http.MethodPost, multicastPath, payload)
	return err
}

// Reply sends messages in response to an event, consuming its reply token.
func (c *Client) Reply(ctx context.Context, tenant, replyToken string, messages []any) error {
	if replyToken == "" {
		return &ValidationError{Field: "replyToken", Message: "required"}
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	payload := replyPayload{ReplyToken: replyToken, Messages: messages}
	_, err := c.execute(ctx, tenant, "reply", http.MethodPost, replyPath, payload)
	return err
}

// GetContent fetches the binary content referenced by a message (image,
// video, or audio). The response is an opaque byte sequence.
func (c *Client) GetContent(ctx context.Context, tenant, messageID string) ([]byte, error) {
	if messageID == "" {
		return nil, &ValidationError{Field: "messageID", Message: "required"}
	}

	path := "/v2/bot/message/" + url.PathEscape(messageID) + "/content"
	return c.execute(ctx, tenant, "content", http.MethodGet, path, nil)
}

// GetProfile fetches a user's public profile.
func (c *Client) GetProfile(ctx context.Context, tenant, userID string) (*Profile, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Message: "required"}
	}

	path := "/v2/bot/profile/" + url.PathEscape(userID)
	var profile Profile
	if err := c.executeJSON(ctx, tenant, "profile", http.MethodGet, path, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Leave exits the group or room the source describes.
func (c *Client) Leave(ctx context.Context, tenant string, src event.Source) error {
	convID := src.ConversationID()
	if convID == "" {
		return &ValidationError{Field: "source", Message: "group or room identifier required"}
	}

	var path string
	if src.GroupID != "" {
		path = "/v2/bot/group/" + url.PathEscape(convID) + "/leave"
	} else {
		path = "/v2/bot/room/" + url.PathEscape(convID) + "/leave"
	}

	_, err := c.execute(ctx, tenant, "leave", http.MethodPost, path, nil)
	return err
}
