package slack

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	slacklib "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// ThreadTriggerHandler is called when a user posts the trigger word inside a
// thread. Slack slash commands carry no thread timestamp, so this is the only
// way to invoke the bot scoped to a thread rather than the whole channel.
type ThreadTriggerHandler func(channelID, threadTS, userID string)

// SocketListener connects to Slack via Socket Mode (outbound WebSocket) and
// dispatches slash commands and thread trigger messages to handlers. No
// inbound URL configuration is needed — the app connects to Slack, not the
// other way around.
type SocketListener struct {
	smClient       *socketmode.Client
	botUserID      string
	triggerWord    string
	commandHandler CommandHandler
	threadHandler  ThreadTriggerHandler
	debug          bool
	connected      atomic.Bool
	eventCount     atomic.Int64
}

// NewSocketListener creates a Socket Mode listener.
// appToken is the Slack app-level token (xapp-...) with connections:write scope.
// botToken is the normal bot token (xoxb-...).
// botUserID is the bot's own Slack user ID (used to ignore self-messages).
// triggerWord is the bare command name (e.g. "autoissue") looked for in
// thread replies. Set env SOCKET_MODE_DEBUG=1 for verbose wire-level logging.
func NewSocketListener(appToken, botToken, botUserID, triggerWord string, commandHandler CommandHandler, threadHandler ThreadTriggerHandler) *SocketListener {
	debug := os.Getenv("SOCKET_MODE_DEBUG") == "1"

	apiOpts := []slacklib.Option{
		slacklib.OptionAppLevelToken(appToken),
	}
	if debug {
		apiOpts = append(apiOpts, slacklib.OptionDebug(true))
		apiOpts = append(apiOpts, slacklib.OptionLog(log.New(os.Stdout, "[slack-api] ", log.LstdFlags)))
	}

	api := slacklib.New(botToken, apiOpts...)

	smOpts := []socketmode.Option{}
	if debug {
		smOpts = append(smOpts, socketmode.OptionDebug(true))
		smOpts = append(smOpts, socketmode.OptionLog(log.New(os.Stdout, "[socket-wire] ", log.LstdFlags)))
	}

	smClient := socketmode.New(api, smOpts...)

	return &SocketListener{
		smClient:       smClient,
		botUserID:      botUserID,
		triggerWord:    triggerWord,
		commandHandler: commandHandler,
		threadHandler:  threadHandler,
		debug:          debug,
	}
}

// Start connects to Slack and begins listening for events in a blocking loop.
// Run this in a goroutine. It reconnects automatically on disconnection.
func (sl *SocketListener) Start() {
	go sl.handleEvents()

	log.Printf("[socket-mode] connecting to Slack (debug=%v)...", sl.debug)
	if err := sl.smClient.Run(); err != nil {
		log.Printf("[socket-mode] fatal: %v", err)
	}
}

// handleEvents processes incoming Socket Mode events.
func (sl *SocketListener) handleEvents() {
	for evt := range sl.smClient.Events {
		sl.eventCount.Add(1)

		switch evt.Type {
		case socketmode.EventTypeConnecting:
			// Only log if we were previously connected (suppress initial spam).
			if sl.connected.Load() {
				log.Printf("[socket-mode] reconnecting...")
			}

		case socketmode.EventTypeConnected:
			wasConnected := sl.connected.Swap(true)
			if !wasConnected {
				log.Printf("[socket-mode] connected (events processed: %d)", sl.eventCount.Load())
			}

		case socketmode.EventTypeConnectionError:
			sl.connected.Store(false)
			log.Printf("[socket-mode] connection error, will retry...")

		case socketmode.EventTypeHello:
			log.Printf("[socket-mode] received hello from Slack")

		case socketmode.EventTypeEventsAPI:
			eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok {
				log.Printf("[socket-mode] WARNING: EventsAPI event data is %T (expected slackevents.EventsAPIEvent), skipping",
					evt.Data)
				if evt.Request != nil {
					sl.smClient.Ack(*evt.Request)
				}
				continue
			}

			// Acknowledge the event immediately to prevent Slack retries.
			if evt.Request != nil {
				sl.smClient.Ack(*evt.Request)
			}

			sl.handleEventsAPI(eventsAPIEvent)

		case socketmode.EventTypeSlashCommand:
			cmd, ok := evt.Data.(slacklib.SlashCommand)
			if !ok {
				log.Printf("[socket-mode] WARNING: slash command data is %T (expected slack.SlashCommand), skipping", evt.Data)
				if evt.Request != nil {
					sl.smClient.Ack(*evt.Request)
				}
				continue
			}

			// Acknowledge immediately so Slack doesn't show a timeout error.
			if evt.Request != nil {
				sl.smClient.Ack(*evt.Request, map[string]interface{}{
					"text": "Processing your request...",
				})
			}

			log.Printf("[socket-mode] slash command: command=%s channel=%s user=%s",
				cmd.Command, cmd.ChannelID, cmd.UserID)

			if sl.commandHandler != nil {
				go sl.commandHandler(cmd.Command, cmd.ChannelID, "", cmd.UserID, cmd.ResponseURL)
			}

		case socketmode.EventTypeInteractive:
			log.Printf("[socket-mode] interactive event received (ignoring)")
			if evt.Request != nil {
				sl.smClient.Ack(*evt.Request)
			}

		default:
			log.Printf("[socket-mode] unhandled event type: %s (data type: %T)",
				evt.Type, evt.Data)
			// Acknowledge unknown event types to avoid retries.
			if evt.Request != nil {
				sl.smClient.Ack(*evt.Request)
			}
		}
	}
	log.Printf("[socket-mode] event channel closed — listener stopped")
}

// handleEventsAPI processes Events API payloads delivered via Socket Mode.
func (sl *SocketListener) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	innerData := event.InnerEvent.Data
	if innerData == nil {
		return
	}

	if ev, ok := innerData.(*slackevents.MessageEvent); ok {
		sl.handleMessage(ev)
	}
}

// handleMessage filters message events down to thread trigger invocations.
func (sl *SocketListener) handleMessage(ev *slackevents.MessageEvent) {
	// Only handle regular user messages (no subtypes like message_changed,
	// bot_message, etc.).
	if ev.SubType != "" {
		return
	}
	if ev.ThreadTimeStamp == "" {
		return // not a thread reply
	}
	if ev.BotID != "" || ev.User == sl.botUserID {
		return
	}
	if !sl.isTrigger(ev.Text) {
		return
	}

	log.Printf("[socket-mode] thread trigger: channel=%s thread=%s user=%s text=%q",
		ev.Channel, ev.ThreadTimeStamp, ev.User, truncate(ev.Text, 80))

	if sl.threadHandler != nil {
		go sl.threadHandler(ev.Channel, ev.ThreadTimeStamp, ev.User)
	}
}

// isTrigger reports whether a thread message invokes the bot: either the bare
// trigger word or its slash form, optionally preceded by an @-mention.
func (sl *SocketListener) isTrigger(text string) bool {
	text = strings.TrimSpace(text)
	if sl.botUserID != "" {
		text = strings.TrimSpace(strings.TrimPrefix(text, "<@"+sl.botUserID+">"))
	}
	return strings.EqualFold(text, sl.triggerWord) || strings.EqualFold(text, "/"+sl.triggerWord)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + fmt.Sprintf("…(%d more)", len(s)-max)
}
