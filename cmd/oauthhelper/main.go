// Command oauthhelper is a one-shot helper server for obtaining a Linear
// access token. Visit http://localhost:3000/ in a browser, authorize the app,
// and copy the token from the callback response into LINEAR_ACCESS_TOKEN.
// Nothing is persisted.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const defaultRedirectURL = "http://localhost:3000/callback"

func main() {
	_ = godotenv.Load()

	redirectURL := os.Getenv("OAUTH_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = defaultRedirectURL
	}

	oauthCfg := &oauth2.Config{
		ClientID:     os.Getenv("LINEAR_CLIENT_ID"),
		ClientSecret: os.Getenv("LINEAR_CLIENT_SECRET"),
		RedirectURL:  redirectURL,
		Scopes:       []string{"read", "write", "issues:create"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://linear.app/oauth/authorize",
			TokenURL: "https://api.linear.app/oauth/token",
		},
	}

	if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
		log.Fatal("LINEAR_CLIENT_ID and LINEAR_CLIENT_SECRET are required")
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Linear requires actor=application for app-actor tokens.
		url := oauthCfg.AuthCodeURL("", oauth2.SetAuthURLParam("actor", "application"))
		http.Redirect(w, r, url, http.StatusFound)
	})

	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code parameter", http.StatusBadRequest)
			return
		}

		token, err := oauthCfg.Exchange(r.Context(), code)
		if err != nil {
			log.Printf("token exchange failed: %v", err)
			http.Error(w, "failed to get access token: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":      "Authorization successful! Copy this access token to your .env file:",
			"access_token": token.AccessToken,
		})
	})

	log.Printf("oauth helper listening on :3000 — open http://localhost:3000/ to authorize")
	if err := http.ListenAndServe(":3000", nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
