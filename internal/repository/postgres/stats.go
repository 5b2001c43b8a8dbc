package postgres

import (
	"context"
	"fmt"

	"review-consensus-guard/internal/entities"
)

const (
	statsByReviewerQuery = `
SELECT reviewer_id,
       COUNT(*) FILTER (WHERE result = 'APPROVE'),
       COUNT(*) FILTER (WHERE result = 'REJECT'),
       COUNT(*) FILTER (WHERE result = 'ABSTAIN')
FROM pr_votes
GROUP BY reviewer_id
ORDER BY reviewer_id`
	statsByStatusQuery = `SELECT status, COUNT(*) FROM pull_requests GROUP BY status ORDER BY status`
	reviewerVotesQuery = `
SELECT COUNT(*) FILTER (WHERE result = 'APPROVE'),
       COUNT(*) FILTER (WHERE result = 'REJECT'),
       COUNT(*) FILTER (WHERE result = 'ABSTAIN')
FROM pr_votes WHERE reviewer_id=$1`
	reviewerPendingQuery = `SELECT COUNT(*) FROM vote_invitations WHERE reviewer_id=$1 AND resolved_at IS NULL`
	reviewerRecentQuery  = `
SELECT pr.id, pr.title, pr.submitter_id, pr.status
FROM pr_reviewers r
JOIN pull_requests pr ON pr.id = r.pr_id
WHERE r.reviewer_id=$1
ORDER BY pr.created_at DESC
LIMIT $2`
)

// Stats returns vote counters by reviewer and PR counts by status.
func (p *Postgres) Stats(ctx context.Context) (entities.Stats, error) {
	res := entities.Stats{
		ByReviewer: make([]entities.ReviewerVoteStat, 0),
		ByStatus:   make([]entities.StatusStat, 0),
	}

	rows, err := p.db.Query(ctx, statsByReviewerQuery)
	if err != nil {
		return res, fmt.Errorf("stats by reviewer: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entities.ReviewerVoteStat
		if err := rows.Scan(&s.UserID, &s.Approved, &s.Rejected, &s.Abstain); err != nil {
			return res, fmt.Errorf("scan reviewer stat: %w", err)
		}
		res.ByReviewer = append(res.ByReviewer, s)
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate reviewer stat: %w", err)
	}

	rows2, err := p.db.Query(ctx, statsByStatusQuery)
	if err != nil {
		return res, fmt.Errorf("stats by status: %w", err)
	}
	defer rows2.Close()
	for rows2.Next() {
		var s entities.StatusStat
		if err := rows2.Scan(&s.Status, &s.PRCount); err != nil {
			return res, fmt.Errorf("scan status stat: %w", err)
		}
		res.ByStatus = append(res.ByStatus, s)
	}
	if err := rows2.Err(); err != nil {
		return res, fmt.Errorf("iterate status stat: %w", err)
	}

	return res, nil
}

// ReviewerStats returns per-user stats.
func (p *Postgres) ReviewerStats(ctx context.Context, userID string, limit int) (entities.ReviewerStats, error) {
	res := entities.ReviewerStats{UserID: userID, RecentPRs: make([]entities.PullRequestShort, 0)}
	if _, err := p.GetUser(ctx, userID); err != nil {
		return res, err
	}

	res.Votes.UserID = userID
	if err := p.db.QueryRow(ctx, reviewerVotesQuery, userID).
		Scan(&res.Votes.Approved, &res.Votes.Rejected, &res.Votes.Abstain); err != nil {
		return res, fmt.Errorf("count votes: %w", err)
	}
	if err := p.db.QueryRow(ctx, reviewerPendingQuery, userID).Scan(&res.PendingInvitations); err != nil {
		return res, fmt.Errorf("count invitations: %w", err)
	}

	recentRows, err := p.db.Query(ctx, reviewerRecentQuery, userID, limit)
	if err != nil {
		return res, fmt.Errorf("reviewer recent prs: %w", err)
	}
	defer recentRows.Close()
	for recentRows.Next() {
		var pr entities.PullRequestShort
		if err := recentRows.Scan(&pr.ID, &pr.Title, &pr.SubmitterID, &pr.Status); err != nil {
			return res, fmt.Errorf("scan reviewer prs: %w", err)
		}
		res.RecentPRs = append(res.RecentPRs, pr)
	}
	if err := recentRows.Err(); err != nil {
		return res, fmt.Errorf("iterate reviewer prs: %w", err)
	}

	return res, nil
}
