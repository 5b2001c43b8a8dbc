package consensus

import "review-consensus-guard/internal/entities"

// Aggregate partitions reviewers by their effective vote as of fromSeq.
// Duplicates are dropped; input order is kept inside each bucket. Abstaining
// reviewers and reviewers without a vote are pending.
func (t *Tracker) Aggregate(reviewers []string, fromSeq int) entities.Approval {
	res := entities.Approval{
		PullRequestID: t.prID,
		FromRevision:  fromSeq,
		Approved:      make([]string, 0),
		Pending:       make([]string, 0),
		Rejected:      make([]string, 0),
	}

	seen := make(map[string]struct{}, len(reviewers))
	for _, r := range reviewers {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}

		result, ok := t.EffectiveVote(r, fromSeq)
		switch {
		case ok && result == entities.VoteApprove:
			res.Approved = append(res.Approved, r)
		case ok && result == entities.VoteReject:
			res.Rejected = append(res.Rejected, r)
		default:
			res.Pending = append(res.Pending, r)
		}
	}
	return res
}
