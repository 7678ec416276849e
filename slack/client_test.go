package slack

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	slacklib "github.com/slack-go/slack"
)

func TestFetchThreadReplies_FollowsCursorToEnd(t *testing.T) {
	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		cursor := r.FormValue("cursor")
		cursors = append(cursors, cursor)

		w.Header().Set("Content-Type", "application/json")
		if cursor == "" {
			_, _ = w.Write([]byte(`{"ok":true,"messages":[
				{"type":"message","user":"U1","text":"starter","ts":"100.0"},
				{"type":"message","user":"U1","text":"reply 1","ts":"101.0"}
			],"has_more":true,"response_metadata":{"next_cursor":"page-2"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"messages":[
			{"type":"message","user":"U1","text":"reply 2","ts":"102.0"}
		],"has_more":false}`))
	}))
	t.Cleanup(srv.Close)

	c := &Client{api: slacklib.New("xoxb-test", slacklib.OptionAPIURL(srv.URL+"/"))}

	msgs, err := c.FetchThreadReplies("C1", "100.0")
	if err != nil {
		t.Fatalf("FetchThreadReplies error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3 across both pages", len(msgs))
	}
	// Oldest first, starter included, newest reply last.
	if msgs[0].Text != "starter" || msgs[2].Text != "reply 2" {
		t.Errorf("unexpected order: first=%q last=%q", msgs[0].Text, msgs[2].Text)
	}
	if len(cursors) != 2 || cursors[1] != "page-2" {
		t.Errorf("cursor sequence = %v, want second request with page-2", cursors)
	}
}

func TestRespondToURL_PayloadShape(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	err := RespondToURL(srv.URL, Response{
		Text:        "done",
		Ephemeral:   true,
		Attachments: []slacklib.Attachment{{Color: "#823FD7", Title: "Fix bug"}},
	})
	if err != nil {
		t.Fatalf("RespondToURL error: %v", err)
	}

	if got.ResponseType != "ephemeral" {
		t.Errorf("response_type = %q, want ephemeral", got.ResponseType)
	}
	if got.Text != "done" {
		t.Errorf("text = %q", got.Text)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Title != "Fix bug" {
		t.Errorf("attachments = %+v", got.Attachments)
	}
}

func TestRespondToURL_InChannelByDefault(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
	}))
	t.Cleanup(srv.Close)

	if err := RespondToURL(srv.URL, Response{Text: "hello"}); err != nil {
		t.Fatalf("RespondToURL error: %v", err)
	}
	if got.ResponseType != "in_channel" {
		t.Errorf("response_type = %q, want in_channel", got.ResponseType)
	}
}

func TestRespondToURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	if err := RespondToURL(srv.URL, Response{Text: "hello"}); err == nil {
		t.Fatal("expected error for non-200 response_url status")
	}
}
