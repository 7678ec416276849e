package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL = "https://api.linear.app/graphql"

	// Transport-level failures (network errors, 5xx) are retried up to
	// maxAttempts times. Well-formed API errors are never retried.
	maxAttempts = 3
)

// Client talks to the Linear GraphQL API with bearer-token auth.
type Client struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
	retryDelay  time.Duration
}

func NewClient(accessToken string) *Client {
	return &Client{
		apiURL:      defaultAPIURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryDelay: 500 * time.Millisecond,
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute runs one GraphQL operation and unmarshals the data payload into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			log.Printf("[linear] retrying request (attempt %d/%d): %v", attempt, maxAttempts, lastErr)
			time.Sleep(c.retryDelay * time.Duration(attempt-1))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("linear API returned HTTP %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// 4xx is not transient; surface it immediately.
			return fmt.Errorf("linear API returned HTTP %d: %s", resp.StatusCode, string(body))
		}

		var gqlResp graphqlResponse
		if err := json.Unmarshal(body, &gqlResp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		if len(gqlResp.Errors) > 0 {
			msgs := make([]string, 0, len(gqlResp.Errors))
			for _, e := range gqlResp.Errors {
				msgs = append(msgs, e.Message)
			}
			return fmt.Errorf("linear API error: %s", strings.Join(msgs, "; "))
		}

		if out != nil {
			if err := json.Unmarshal(gqlResp.Data, out); err != nil {
				return fmt.Errorf("unmarshal data: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("linear request failed after %d attempts: %w", maxAttempts, lastErr)
}

const usersQuery = `
query {
    users {
        nodes {
            id
            name
            displayName
        }
    }
}`

// Users returns all members of the Linear workspace.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var data usersQueryData
	if err := c.execute(ctx, usersQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return data.Users.Nodes, nil
}

const teamsQuery = `
query {
    teams {
        nodes {
            id
            states {
                nodes {
                    id
                    name
                }
            }
        }
    }
}`

// DefaultTeamTodoState returns the first team's ID and the ID of its "Todo"
// workflow state (matched case-insensitively). todoStateID is empty when the
// team has no such state; issue creation then proceeds without a status.
func (c *Client) DefaultTeamTodoState(ctx context.Context) (teamID, todoStateID string, err error) {
	var data teamsQueryData
	if err := c.execute(ctx, teamsQuery, nil, &data); err != nil {
		return "", "", fmt.Errorf("fetch teams: %w", err)
	}

	teams := data.Teams.Nodes
	if len(teams) == 0 {
		return "", "", fmt.Errorf("no Linear teams found")
	}

	teamID = teams[0].ID
	for _, state := range teams[0].States.Nodes {
		if strings.EqualFold(state.Name, "todo") {
			todoStateID = state.ID
			break
		}
	}
	return teamID, todoStateID, nil
}

const issueCreateMutation = `
mutation CreateIssue(
    $title: String!,
    $description: String!,
    $teamId: String!,
    $priority: Int,
    $assigneeId: String,
    $stateId: String
) {
    issueCreate(input: {
        title: $title,
        description: $description,
        teamId: $teamId,
        priority: $priority,
        assigneeId: $assigneeId,
        stateId: $stateId
    }) {
        success
        issue {
            id
            url
        }
    }
}`

// CreateIssue files an issue against the default team. A footer linking back
// to the originating Slack conversation is appended to the description.
// Failures anywhere in the flow come back as a failed CreationResult; this
// method never returns an error to the caller.
func (c *Client) CreateIssue(ctx context.Context, input IssueInput) CreationResult {
	teamID, todoStateID, err := c.DefaultTeamTodoState(ctx)
	if err != nil {
		return CreationResult{Success: false, Error: err.Error()}
	}

	variables := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description + sourceFooter(input.SourceURL),
		"teamId":      teamID,
	}
	if input.Priority >= 1 && input.Priority <= 4 {
		variables["priority"] = input.Priority
	}
	if input.AssigneeID != "" {
		variables["assigneeId"] = input.AssigneeID
	}
	if todoStateID != "" {
		variables["stateId"] = todoStateID
	}

	var data issueCreateData
	if err := c.execute(ctx, issueCreateMutation, variables, &data); err != nil {
		return CreationResult{Success: false, Error: err.Error()}
	}

	if !data.IssueCreate.Success {
		return CreationResult{Success: false, Error: "Failed to create Linear issue."}
	}

	return CreationResult{
		Success:  true,
		URL:      data.IssueCreate.Issue.URL,
		Title:    input.Title,
		Priority: input.Priority,
	}
}

func sourceFooter(url string) string {
	if url == "" {
		return "\n\n---\nCreated from a Slack conversation"
	}
	return fmt.Sprintf("\n\n---\n[View Slack thread](%s)", url)
}
