package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	slacklib "github.com/slack-go/slack"

	"github.com/justmike1/autoissue/linear"
	"github.com/justmike1/autoissue/prompts"
	botslack "github.com/justmike1/autoissue/slack"
)

const (
	linearPurple = "#823FD7"
	errorRed     = "#E01E5A"

	noAssignee = "-/-"
)

// AutoIssueHandler turns recent conversation context into a Linear issue:
// fetch workspace users, collect messages, summarize them into a draft via
// one completion call, then file the issue and report back.
type AutoIssueHandler struct {
	slackClient SlackClient
	tracker     TrackerClient
	completions CompletionClient
	extractor   Extractor
}

func NewAutoIssueHandler(slackClient SlackClient, tracker TrackerClient, completions CompletionClient) *AutoIssueHandler {
	return &AutoIssueHandler{
		slackClient: slackClient,
		tracker:     tracker,
		completions: completions,
		extractor:   PrefixExtractor{},
	}
}

// Execute runs one invocation. threadTS is empty for channel-scoped runs;
// responseURL is empty for thread-triggered runs (replies then go into the
// thread). The invocation always ends with a user-visible response: a panic
// anywhere below is caught and rendered as a generic error card so a single
// bad invocation never kills the process.
func (h *AutoIssueHandler) Execute(channelID, threadTS, userID, responseURL string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[user=%s channel=%s] panic in autoissue: %v", userID, channelID, r)
			h.respond(channelID, threadTS, responseURL, botslack.Response{
				Attachments: []slacklib.Attachment{errorCard(fmt.Sprintf("%v", r))},
			})
		}
	}()

	ctx := context.Background()

	messages, err := CollectMessages(h.slackClient, channelID, threadTS)
	if err != nil {
		log.Printf("[user=%s channel=%s] failed to collect messages: %v", userID, channelID, err)
		h.respondError(channelID, threadTS, responseURL, err.Error())
		return
	}

	if len(messages) == 0 {
		h.respond(channelID, threadTS, responseURL, botslack.Response{
			Text: "No recent messages found to create an issue from.",
		})
		return
	}

	users, err := h.tracker.Users(ctx)
	if err != nil {
		log.Printf("[user=%s channel=%s] failed to fetch Linear users: %v", userID, channelID, err)
		h.respondError(channelID, threadTS, responseURL, err.Error())
		return
	}

	raw, err := h.completions.Complete(ctx, systemPrompt(users), userPrompt(messages))
	if err != nil {
		log.Printf("[user=%s channel=%s] completion failed: %v", userID, channelID, err)
		h.respondError(channelID, threadTS, responseURL, err.Error())
		return
	}

	draft := h.extractor.Parse(raw)
	assigneeID := h.extractor.ResolveAssignee(draft.AssigneeName, users)

	result := h.tracker.CreateIssue(ctx, linear.IssueInput{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		AssigneeID:  assigneeID,
		SourceURL:   h.sourceLink(channelID, threadTS, messages),
	})

	if !result.Success {
		log.Printf("[user=%s channel=%s] issue creation failed: %s", userID, channelID, result.Error)
		h.respondError(channelID, threadTS, responseURL, result.Error)
		return
	}

	log.Printf("[user=%s channel=%s] created issue %q (priority=%d assignee=%q)",
		userID, channelID, result.Title, result.Priority, draft.AssigneeName)

	h.respond(channelID, threadTS, responseURL, botslack.Response{
		Attachments: []slacklib.Attachment{successCard(result, assigneeDisplayName(assigneeID, users))},
	})
}

// sourceLink resolves a permalink for the issue footer, best-effort: a
// permalink failure is logged and the issue is filed without the link.
func (h *AutoIssueHandler) sourceLink(channelID, threadTS string, messages []ConversationMessage) string {
	ts := threadTS
	if ts == "" && len(messages) > 0 {
		ts = messages[len(messages)-1].Timestamp
	}
	if ts == "" {
		return ""
	}

	permalink, err := h.slackClient.GetPermalink(channelID, ts)
	if err != nil {
		log.Printf("[channel=%s] failed to resolve permalink for %s: %v", channelID, ts, err)
		return ""
	}
	return permalink
}

func (h *AutoIssueHandler) respond(channelID, threadTS, responseURL string, resp botslack.Response) {
	var err error
	if responseURL != "" {
		err = botslack.RespondToURL(responseURL, resp)
	} else {
		err = h.slackClient.PostThreadReply(channelID, threadTS, resp.Text, resp.Attachments...)
	}
	if err != nil {
		log.Printf("[channel=%s] failed to deliver response: %v", channelID, err)
	}
}

func (h *AutoIssueHandler) respondError(channelID, threadTS, responseURL, msg string) {
	h.respond(channelID, threadTS, responseURL, botslack.Response{
		Attachments: []slacklib.Attachment{errorCard(msg)},
	})
}

func systemPrompt(users []linear.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, "- "+u.DisplayName)
	}
	return fmt.Sprintf(prompts.MustGet("autoissue_system"), strings.Join(names, "\n"))
}

func userPrompt(messages []ConversationMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Author, m.Text))
	}
	return fmt.Sprintf(prompts.MustGet("autoissue_user"), strings.Join(lines, "\n"))
}

func successCard(result linear.CreationResult, assigneeName string) slacklib.Attachment {
	return slacklib.Attachment{
		Color:     linearPurple,
		Title:     result.Title,
		TitleLink: result.URL,
		Fields: []slacklib.AttachmentField{
			{Title: "Priority", Value: priorityLabel(result.Priority), Short: true},
			{Title: "Assignee", Value: assigneeName, Short: true},
		},
	}
}

func errorCard(msg string) slacklib.Attachment {
	return slacklib.Attachment{
		Color: errorRed,
		Title: "❌ Error Creating Issue",
		Text:  msg,
	}
}

func priorityLabel(priority int) string {
	switch priority {
	case 1:
		return "Urgent"
	case 2:
		return "High"
	case 3:
		return "Medium"
	case 4:
		return "Low"
	default:
		return "None"
	}
}

func assigneeDisplayName(assigneeID string, users []linear.User) string {
	if assigneeID == "" {
		return noAssignee
	}
	for _, u := range users {
		if u.ID == assigneeID {
			if u.DisplayName != "" {
				return u.DisplayName
			}
			return u.Name
		}
	}
	return noAssignee
}
