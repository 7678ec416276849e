package commands

import (
	"context"

	slacklib "github.com/slack-go/slack"

	"github.com/justmike1/autoissue/linear"
)

type SlackClient interface {
	FetchChannelHistory(channelID string, limit int) ([]slacklib.Message, error)
	FetchThreadReplies(channelID, threadTS string) ([]slacklib.Message, error)
	FetchMessage(channelID, ts string) (*slacklib.Message, error)
	GetUserInfo(userID string) (*slacklib.User, error)
	GetPermalink(channelID, messageTS string) (string, error)
	PostThreadReply(channelID, threadTS, text string, attachments ...slacklib.Attachment) error
}

// TrackerClient is the issue-tracker surface the handler needs. CreateIssue
// returns a typed result rather than an error: failures inside the creation
// flow are already converted at that layer.
type TrackerClient interface {
	Users(ctx context.Context) ([]linear.User, error)
	CreateIssue(ctx context.Context, input linear.IssueInput) linear.CreationResult
}

type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor turns a raw completion reply into a draft issue. It is a seam so
// the fragile prefix-based text contract can later be swapped for a
// structured-output one without touching the handler.
type Extractor interface {
	Parse(raw string) Draft
	ResolveAssignee(name string, users []linear.User) string
}
