package linear

// User is a Linear workspace member as returned by the users query.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// WorkflowState is one state of a team's workflow (e.g. "Todo", "Done").
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a Linear team with its workflow states.
type Team struct {
	ID     string `json:"id"`
	States struct {
		Nodes []WorkflowState `json:"nodes"`
	} `json:"states"`
}

// IssueInput holds the caller-supplied parameters for CreateIssue.
// Priority 0 means "unspecified" and is omitted from the mutation so the
// tracker applies its own default; AssigneeID and SourceURL may be empty.
type IssueInput struct {
	Title       string
	Description string
	Priority    int
	AssigneeID  string
	SourceURL   string
}

// CreationResult is the typed outcome of CreateIssue. Errors inside the
// creation flow are converted into a failed result, never raised.
type CreationResult struct {
	Success  bool
	URL      string
	Title    string
	Priority int
	Error    string
}

type usersQueryData struct {
	Users struct {
		Nodes []User `json:"nodes"`
	} `json:"users"`
}

type teamsQueryData struct {
	Teams struct {
		Nodes []Team `json:"nodes"`
	} `json:"teams"`
}

type issueCreateData struct {
	IssueCreate struct {
		Success bool `json:"success"`
		Issue   struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"issue"`
	} `json:"issueCreate"`
}
