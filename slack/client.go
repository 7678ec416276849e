package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

type Client struct {
	api *slack.Client
}

func NewClient(botToken string) *Client {
	return &Client{api: slack.New(botToken)}
}

func (c *Client) FetchChannelHistory(channelID string, limit int) ([]slack.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	}

	resp, err := c.api.GetConversationHistory(params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel history: %w", err)
	}

	return resp.Messages, nil
}

// FetchThreadReplies returns all messages of a thread, oldest first, starter
// included. conversations.replies pages forward in time, so a single limited
// call would truncate away the newest replies; this follows the cursor to the
// end and lets callers take the window they need.
func (c *Client) FetchThreadReplies(channelID, threadTS string) ([]slack.Message, error) {
	params := &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     200,
	}

	var all []slack.Message
	for {
		msgs, hasMore, nextCursor, err := c.api.GetConversationReplies(params)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch thread replies: %w", err)
		}
		all = append(all, msgs...)
		if !hasMore || nextCursor == "" {
			return all, nil
		}
		params.Cursor = nextCursor
	}
}

// FetchMessage returns the single message with the given timestamp, used to
// look up a thread's starter message in its parent channel.
func (c *Client) FetchMessage(channelID, ts string) (*slack.Message, error) {
	resp, err := c.api.GetConversationHistory(&slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", ts, err)
	}
	if len(resp.Messages) == 0 {
		return nil, fmt.Errorf("message %s not found in channel %s", ts, channelID)
	}
	return &resp.Messages[0], nil
}

// PostThreadReply posts a message into an existing thread. Thread-scoped
// invocations have no response_url, so replies go here instead.
func (c *Client) PostThreadReply(channelID, threadTS, text string, attachments ...slack.Attachment) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false), slack.MsgOptionTS(threadTS)}
	if len(attachments) > 0 {
		opts = append(opts, slack.MsgOptionAttachments(attachments...))
	}
	_, _, err := c.api.PostMessage(channelID, opts...)
	if err != nil {
		return fmt.Errorf("failed to post thread reply: %w", err)
	}
	return nil
}

// GetPermalink returns the permanent URL for a specific message in a channel.
func (c *Client) GetPermalink(channelID, messageTS string) (string, error) {
	permalink, err := c.api.GetPermalink(&slack.PermalinkParameters{
		Channel: channelID,
		Ts:      messageTS,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get permalink: %w", err)
	}
	return permalink, nil
}

// GetUserInfo returns profile information for a Slack user by their user ID.
func (c *Client) GetUserInfo(userID string) (*slack.User, error) {
	user, err := c.api.GetUserInfo(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return user, nil
}

// GetBotUserID returns the Slack user ID of the bot token.
func (c *Client) GetBotUserID() (string, error) {
	resp, err := c.api.AuthTest()
	if err != nil {
		return "", fmt.Errorf("failed to call auth.test: %w", err)
	}
	return resp.UserID, nil
}

// Response is a reply delivered through a slash command's response_url.
// Attachments render the issue success/error cards.
type Response struct {
	Text        string
	Attachments []slack.Attachment
	Ephemeral   bool
}

type webhookPayload struct {
	ResponseType string             `json:"response_type"`
	Text         string             `json:"text,omitempty"`
	Attachments  []slack.Attachment `json:"attachments,omitempty"`
}

func RespondToURL(responseURL string, r Response) error {
	respType := "in_channel"
	if r.Ephemeral {
		respType = "ephemeral"
	}

	payload, err := json.Marshal(webhookPayload{
		ResponseType: respType,
		Text:         r.Text,
		Attachments:  r.Attachments,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response payload: %w", err)
	}

	resp, err := http.Post(responseURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to post to response_url: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response_url returned status %d", resp.StatusCode)
	}

	return nil
}
