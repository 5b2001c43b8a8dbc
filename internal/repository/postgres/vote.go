package postgres

import (
	"context"
	"errors"
	"fmt"

	"review-consensus-guard/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	revisionExistsQuery = `SELECT true FROM pr_revisions WHERE pr_id=$1 AND seq=$2`
	insertVoteQuery     = `
INSERT INTO pr_votes(pr_id, revision_seq, reviewer_id, result, comment)
VALUES ($1,$2,$3,$4,$5)
RETURNING cast_at`
	resolveInvitationQuery = `
UPDATE vote_invitations SET resolved_at=NOW()
WHERE pr_id=$1 AND reviewer_id=$2 AND resolved_at IS NULL`
)

// CastVote records a vote on a revision of an open PR. A second vote by the
// same reviewer on the same revision fails with ErrVoteExists.
func (p *Postgres) CastVote(ctx context.Context, vote entities.Vote) (*entities.Vote, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := p.lockPR(ctx, tx, vote.PullRequestID)
	if err != nil {
		return nil, err
	}
	if status.Closed() {
		return nil, fmt.Errorf("%w: %s", entities.ErrPRClosed, vote.PullRequestID)
	}

	var exists bool
	if err := tx.QueryRow(ctx, revisionExistsQuery, vote.PullRequestID, vote.RevisionSeq).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s#%d", entities.ErrRevisionNotFound, vote.PullRequestID, vote.RevisionSeq)
		}
		return nil, fmt.Errorf("revision lookup: %w", err)
	}
	if _, err := getUser(ctx, tx, vote.ReviewerID); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, insertVoteQuery, vote.PullRequestID, vote.RevisionSeq, vote.ReviewerID, string(vote.Result), vote.Comment).
		Scan(&vote.CastAt)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return nil, fmt.Errorf("%w: %s already voted on %s#%d",
				entities.ErrVoteExists, vote.ReviewerID, vote.PullRequestID, vote.RevisionSeq)
		}
		p.log.Errorw("failed to insert vote", "error", err, "pr_id", vote.PullRequestID, "reviewer_id", vote.ReviewerID)
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	if _, err := tx.Exec(ctx, resolveInvitationQuery, vote.PullRequestID, vote.ReviewerID); err != nil {
		return nil, fmt.Errorf("resolve invitation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("vote cast", "pr_id", vote.PullRequestID, "seq", vote.RevisionSeq, "reviewer_id", vote.ReviewerID, "result", vote.Result)
	return &vote, nil
}
