// Package entities contains core business entities.
package entities

import "time"

// PullRequestStatus enumerates PR lifecycle states.
type PullRequestStatus string

const (
	// StatusOpen marks PR as open.
	StatusOpen PullRequestStatus = "OPEN"
	// StatusMerged marks PR as merged.
	StatusMerged PullRequestStatus = "MERGED"
	// StatusDiscarded marks PR as closed without merge.
	StatusDiscarded PullRequestStatus = "DISCARDED"
)

// Closed reports whether the status is terminal.
func (s PullRequestStatus) Closed() bool {
	return s == StatusMerged || s == StatusDiscarded
}

// Revision is an immutable point in a PR history.
type Revision struct {
	PullRequestID string
	Seq           int
	AuthorID      string
	CommitHash    string
	CreatedAt     time.Time
}

// PullRequest is a domain model of a PR with its full history.
// Revisions are kept in ascending Seq order.
type PullRequest struct {
	ID          string
	Title       string
	SubmitterID string
	Status      PullRequestStatus
	Revisions   []Revision
	Votes       []Vote
	Reviewers   []string
	CreatedAt   *time.Time
	ClosedAt    *time.Time
}

// LatestRevision returns the newest revision, if any.
func (pr PullRequest) LatestRevision() (Revision, bool) {
	if len(pr.Revisions) == 0 {
		return Revision{}, false
	}
	return pr.Revisions[len(pr.Revisions)-1], true
}

// Revision returns the revision with the given sequence number.
func (pr PullRequest) Revision(seq int) (Revision, bool) {
	for _, r := range pr.Revisions {
		if r.Seq == seq {
			return r, true
		}
	}
	return Revision{}, false
}

// PullRequestShort is a compact projection for reviewer listings.
type PullRequestShort struct {
	ID          string            `json:"pull_request_id"`
	Title       string            `json:"title"`
	SubmitterID string            `json:"submitter_id"`
	Status      PullRequestStatus `json:"status"`
}
