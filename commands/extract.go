package commands

import (
	"strconv"
	"strings"

	"github.com/justmike1/autoissue/linear"
)

// Draft is the issue content extracted from a completion reply. Priority 0
// means the model gave no usable priority; AssigneeName may be empty or a
// name that resolves to nobody.
type Draft struct {
	Title        string
	Description  string
	Priority     int
	AssigneeName string
}

// PrefixExtractor parses the four-field TITLE/DESCRIPTION/PRIORITY/ASSIGNEE
// reply format. Each field captures a single line; lines without a recognized
// prefix are dropped. The format is deliberately lenient: missing fields stay
// empty, an unparseable priority becomes 0, and parsing never fails.
type PrefixExtractor struct{}

func (PrefixExtractor) Parse(raw string) Draft {
	var d Draft

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			d.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			d.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		case strings.HasPrefix(line, "PRIORITY:"):
			p, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "PRIORITY:")))
			if err != nil {
				p = 0
			}
			d.Priority = p
		case strings.HasPrefix(line, "ASSIGNEE:"):
			d.AssigneeName = strings.TrimSpace(strings.TrimPrefix(line, "ASSIGNEE:"))
		}
	}

	return d
}

// ResolveAssignee maps a suggested name to a Linear user ID by exact equality
// against either the login name or display name. First match wins; no match
// (or an empty suggestion, including the model's literal "unassigned" when no
// user carries that name) yields an empty ID. Exact-match-only is deliberate:
// the prompt forbids guessing an assignee, so the resolver must not either.
func (PrefixExtractor) ResolveAssignee(name string, users []linear.User) string {
	if name == "" {
		return ""
	}
	for _, u := range users {
		if u.Name == name || u.DisplayName == name {
			return u.ID
		}
	}
	return ""
}
