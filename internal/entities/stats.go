// Package entities contains core business entities.
package entities

// Stats aggregates vote counters by reviewer and PR counts by status.
type Stats struct {
	ByReviewer []ReviewerVoteStat `json:"by_reviewer"`
	ByStatus   []StatusStat       `json:"by_status"`
}

// ReviewerVoteStat counts votes of one reviewer grouped by result.
type ReviewerVoteStat struct {
	UserID   string `json:"user_id"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
	Abstain  int64  `json:"abstain"`
}

// StatusStat describes PR counts grouped by status.
type StatusStat struct {
	Status  PullRequestStatus `json:"status"`
	PRCount int64             `json:"pr_count"`
}

// ReviewerStats contains aggregated data for a single reviewer.
type ReviewerStats struct {
	UserID             string             `json:"user_id"`
	Votes              ReviewerVoteStat   `json:"votes"`
	PendingInvitations int64              `json:"pending_invitations"`
	RecentPRs          []PullRequestShort `json:"recent_prs"`
}
