package entities

import (
	"fmt"
	"time"
)

// VoteResult is a reviewer opinion on a revision.
type VoteResult string

const (
	// VoteApprove approves the revision.
	VoteApprove VoteResult = "APPROVE"
	// VoteReject requests changes.
	VoteReject VoteResult = "REJECT"
	// VoteAbstain records a neutral opinion.
	VoteAbstain VoteResult = "ABSTAIN"
)

// ParseVoteResult validates a raw vote result.
func ParseVoteResult(s string) (VoteResult, error) {
	switch r := VoteResult(s); r {
	case VoteApprove, VoteReject, VoteAbstain:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown vote result %q", ErrInvalidArgument, s)
	}
}

// Vote is cast by one reviewer against one revision.
type Vote struct {
	PullRequestID string
	RevisionSeq   int
	ReviewerID    string
	Result        VoteResult
	Comment       string
	CastAt        time.Time
}

// VoteInvitation is a pending request for a reviewer to vote.
type VoteInvitation struct {
	ID            string
	PullRequestID string
	ReviewerID    string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// Pending reports whether the invitation still waits for a vote.
func (i VoteInvitation) Pending() bool {
	return i.ResolvedAt == nil
}

// EffectiveVote is a reviewer's opinion as of a revision. Voted is false
// when the reviewer has no vote on FromRevision or any later revision.
type EffectiveVote struct {
	PullRequestID string
	ReviewerID    string
	FromRevision  int
	Result        VoteResult
	Voted         bool
}

// Approval partitions reviewers by their effective vote.
type Approval struct {
	PullRequestID string
	FromRevision  int
	Approved      []string
	Pending       []string
	Rejected      []string
}

// Satisfied reports that nobody rejected and nobody is pending.
func (a Approval) Satisfied() bool {
	return len(a.Rejected) == 0 && len(a.Pending) == 0
}
