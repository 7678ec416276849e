package commands

import (
	"log"
	"strings"

	botslack "github.com/justmike1/autoissue/slack"
)

// CommandName is the single slash command this bot answers to.
const CommandName = "autoissue"

type Router struct {
	autoissue *AutoIssueHandler
}

func NewRouter(autoissue *AutoIssueHandler) *Router {
	return &Router{autoissue: autoissue}
}

// HandleSlash dispatches a slash command (webhook or Socket Mode).
func (r *Router) HandleSlash(command, channelID, threadTS, userID, responseURL string) {
	switch strings.TrimPrefix(command, "/") {
	case CommandName:
		r.autoissue.Execute(channelID, threadTS, userID, responseURL)
	default:
		log.Printf("[user=%s channel=%s] unknown command %q", userID, channelID, command)
		err := botslack.RespondToURL(responseURL, botslack.Response{
			Text:      "Unknown command. Use `/" + CommandName + "` to create a Linear issue from recent messages.",
			Ephemeral: true,
		})
		if err != nil {
			log.Printf("failed to send usage hint: %v", err)
		}
	}
}

// HandleThreadTrigger dispatches a thread-scoped invocation (Socket Mode
// message mentioning the trigger word inside a thread).
func (r *Router) HandleThreadTrigger(channelID, threadTS, userID string) {
	r.autoissue.Execute(channelID, threadTS, userID, "")
}
