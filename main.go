package main

import (
	"log"
	"net/http"

	"github.com/justmike1/autoissue/commands"
	"github.com/justmike1/autoissue/config"
	"github.com/justmike1/autoissue/linear"
	"github.com/justmike1/autoissue/openai"
	"github.com/justmike1/autoissue/prompts"
	botslack "github.com/justmike1/autoissue/slack"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := prompts.Load(""); err != nil {
		log.Fatalf("failed to load prompts: %v", err)
	}

	slackClient := botslack.NewClient(cfg.SlackBotToken)
	linearClient := linear.NewClient(cfg.LinearAccessToken)
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	log.Printf("using OpenAI model %s", cfg.OpenAIModel)

	handler := commands.NewAutoIssueHandler(slackClient, linearClient, openaiClient)
	router := commands.NewRouter(handler)

	if cfg.SocketMode() {
		botUserID, err := slackClient.GetBotUserID()
		if err != nil {
			log.Fatalf("failed to resolve bot user ID: %v", err)
		}
		listener := botslack.NewSocketListener(
			cfg.SlackAppToken, cfg.SlackBotToken, botUserID, commands.CommandName,
			router.HandleSlash, router.HandleThreadTrigger)
		go listener.Start()
	}

	if cfg.SlackSigningSecret != "" {
		webhook := botslack.NewHandler(cfg.SlackSigningSecret, router.HandleSlash)
		http.Handle("/webhook", webhook)
	}
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("autoissue server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
