package commands

import (
	"fmt"
	"strings"

	slacklib "github.com/slack-go/slack"
)

// maxMessages caps how much conversation context goes into the prompt.
const maxMessages = 10

// ConversationMessage is one line of conversation context, already resolved
// to a human-readable author name. It lives for a single invocation only.
type ConversationMessage struct {
	Author    string
	Text      string
	Timestamp string
}

// CollectMessages gathers up to maxMessages recent qualifying messages from a
// channel (threadTS empty) or thread, oldest first. Slash-command invocations
// and empty messages never qualify. When a thread has fewer than maxMessages
// qualifying replies, the thread's starter message is prepended unless it is
// itself a command.
func CollectMessages(client SlackClient, channelID, threadTS string) ([]ConversationMessage, error) {
	names := newNameResolver(client)

	var raw []slacklib.Message
	if threadTS == "" {
		history, err := client.FetchChannelHistory(channelID, maxMessages+1)
		if err != nil {
			return nil, fmt.Errorf("collect channel messages: %w", err)
		}
		// History arrives newest first; rebuild chronological order.
		for i := len(history) - 1; i >= 0; i-- {
			raw = append(raw, history[i])
		}
	} else {
		replies, err := client.FetchThreadReplies(channelID, threadTS)
		if err != nil {
			return nil, fmt.Errorf("collect thread messages: %w", err)
		}
		// The starter rides along in the reply listing; it is handled
		// separately below so it only appears when the thread is short.
		for _, m := range replies {
			if m.Timestamp == threadTS {
				continue
			}
			raw = append(raw, m)
		}
		// Replies arrive oldest first; keep only the newest window.
		if len(raw) > maxMessages+1 {
			raw = raw[len(raw)-(maxMessages+1):]
		}
	}

	var messages []ConversationMessage
	for _, m := range raw {
		if !qualifies(m) {
			continue
		}
		messages = append(messages, ConversationMessage{
			Author:    names.resolve(m),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}

	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	} else if threadTS != "" {
		starter, err := client.FetchMessage(channelID, threadTS)
		if err != nil {
			return nil, fmt.Errorf("fetch thread starter: %w", err)
		}
		if qualifies(*starter) {
			first := ConversationMessage{
				Author:    names.resolve(*starter),
				Text:      starter.Text,
				Timestamp: starter.Timestamp,
			}
			messages = append([]ConversationMessage{first}, messages...)
		}
	}

	return messages, nil
}

func qualifies(m slacklib.Message) bool {
	return m.Text != "" && !strings.HasPrefix(m.Text, "/") && !isInvocation(m.Text)
}

// isInvocation reports whether a message is itself an invocation of the bot:
// the bare trigger word, optionally preceded by an @-mention. Thread-scoped
// runs arrive as plain messages in this form, and like slash commands they
// are conversation plumbing, not content.
func isInvocation(text string) bool {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "<@") {
		if i := strings.Index(text, ">"); i != -1 {
			text = strings.TrimSpace(text[i+1:])
		}
	}
	return strings.EqualFold(text, CommandName)
}

// nameResolver maps Slack user IDs to display names, caching lookups for the
// duration of one invocation.
type nameResolver struct {
	client SlackClient
	cache  map[string]string
}

func newNameResolver(client SlackClient) *nameResolver {
	return &nameResolver{client: client, cache: make(map[string]string)}
}

func (r *nameResolver) resolve(m slacklib.Message) string {
	if m.User == "" {
		if m.Username != "" {
			return m.Username
		}
		if m.BotID != "" {
			return "bot:" + m.BotID
		}
		return "unknown"
	}

	if name, ok := r.cache[m.User]; ok {
		return name
	}

	name := m.User
	if user, err := r.client.GetUserInfo(m.User); err == nil {
		switch {
		case user.Profile.DisplayName != "":
			name = user.Profile.DisplayName
		case user.RealName != "":
			name = user.RealName
		case user.Name != "":
			name = user.Name
		}
	}
	r.cache[m.User] = name
	return name
}
