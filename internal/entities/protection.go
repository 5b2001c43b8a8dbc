package entities

// CombineStrategy decides how several matching protection rules are merged.
type CombineStrategy string

const (
	// CombineOr forbids an operation when any matching rule forbids it.
	CombineOr CombineStrategy = "or"
	// CombineLastMatch lets the matching rule with the highest position decide.
	CombineLastMatch CombineStrategy = "last_match"
)

// TagProtection guards tags of a project against build-driven mutation.
// Tags, Branches and Jobs hold space separated patterns; a leading "-" excludes.
type TagProtection struct {
	ProjectID       string
	Position        int
	Tags            string
	Branches        string
	Jobs            string
	PreventCreation bool
	PreventUpdate   bool
	PreventDeletion bool
}

// ProtectionDecision is the result of evaluating tag protection for one tag.
type ProtectionDecision struct {
	PreventCreation bool
	PreventUpdate   bool
	PreventDeletion bool
	MatchedRules    []int
}
