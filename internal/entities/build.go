package entities

// Build is the context of the build executing pipeline actions.
type Build struct {
	ProjectID     string
	Number        int64
	JobName       string
	Branch        string
	CommitHash    string
	PullRequestID string
	Params        map[string]string
}

// TagOutcome is the terminal state of a tag mutation.
type TagOutcome string

const (
	// TagCreated means the tag did not exist and was created.
	TagCreated TagOutcome = "CREATED"
	// TagReplaced means the tag existed and was moved to the build commit.
	TagReplaced TagOutcome = "REPLACED"
	// TagRejected means protection forbade the mutation.
	TagRejected TagOutcome = "REJECTED"
)

// ActionResult describes one executed post-build action.
type ActionResult struct {
	Action  string
	Ref     string
	Outcome TagOutcome
}
