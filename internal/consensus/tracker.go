// Package consensus computes effective reviewer votes and the approval
// partition of a pull request at any point of its revision history.
//
// A Tracker is built from an immutable snapshot of a pull request and is safe
// for concurrent use; it never mutates the snapshot.
package consensus

import (
	"sort"

	"review-consensus-guard/internal/entities"
)

// Tracker answers consensus queries over one pull request snapshot.
type Tracker struct {
	prID      string
	submitter string
	seqs      []int
	votes     map[int]map[string]entities.Vote
}

// New indexes the revisions and votes of pr.
func New(pr entities.PullRequest) *Tracker {
	seqs := make([]int, 0, len(pr.Revisions))
	for _, r := range pr.Revisions {
		seqs = append(seqs, r.Seq)
	}
	sort.Ints(seqs)

	votes := make(map[int]map[string]entities.Vote, len(seqs))
	for _, v := range pr.Votes {
		byReviewer, ok := votes[v.RevisionSeq]
		if !ok {
			byReviewer = make(map[string]entities.Vote)
			votes[v.RevisionSeq] = byReviewer
		}
		if _, dup := byReviewer[v.ReviewerID]; dup {
			// storage guarantees uniqueness; keep the first one seen
			continue
		}
		byReviewer[v.ReviewerID] = v
	}

	return &Tracker{
		prID:      pr.ID,
		submitter: pr.SubmitterID,
		seqs:      seqs,
		votes:     votes,
	}
}

// HasRevision reports whether seq belongs to the revision history.
func (t *Tracker) HasRevision(seq int) bool {
	i := sort.SearchInts(t.seqs, seq)
	return i < len(t.seqs) && t.seqs[i] == seq
}

// EffectiveVote returns the vote of reviewerID as of revision fromSeq.
//
// The submitter always approves. Otherwise the first vote found walking from
// fromSeq towards the latest revision wins; votes cast on earlier revisions
// are ignored. ok is false when the reviewer has no opinion yet.
func (t *Tracker) EffectiveVote(reviewerID string, fromSeq int) (result entities.VoteResult, ok bool) {
	if reviewerID == t.submitter {
		return entities.VoteApprove, true
	}
	for _, seq := range t.onward(fromSeq) {
		if v, found := t.votes[seq][reviewerID]; found {
			return v.Result, true
		}
	}
	return "", false
}

// Votes lists every vote reviewerID cast, oldest revision first.
func (t *Tracker) Votes(reviewerID string) []entities.Vote {
	res := make([]entities.Vote, 0)
	for _, seq := range t.seqs {
		if v, found := t.votes[seq][reviewerID]; found {
			res = append(res, v)
		}
	}
	return res
}

func (t *Tracker) onward(fromSeq int) []int {
	return t.seqs[sort.SearchInts(t.seqs, fromSeq):]
}
