package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"review-consensus-guard/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertPRQuery       = `INSERT INTO pull_requests(id, title, submitter_id, status) VALUES ($1,$2,$3,'OPEN')`
	insertRevisionQuery = `
INSERT INTO pr_revisions(pr_id, seq, author_id, commit_hash)
VALUES ($1,$2,$3,$4)
RETURNING created_at`
	nextRevisionSeqQuery = `SELECT COALESCE(MAX(seq), 0) + 1 FROM pr_revisions WHERE pr_id=$1`
	selectPRQuery        = `SELECT id, title, submitter_id, status, created_at, closed_at FROM pull_requests WHERE id=$1`
	selectRevisionsQuery = `
SELECT pr_id, seq, author_id, commit_hash, created_at
FROM pr_revisions WHERE pr_id=$1 ORDER BY seq`
	selectVotesQuery = `
SELECT pr_id, revision_seq, reviewer_id, result, comment, cast_at
FROM pr_votes WHERE pr_id=$1 ORDER BY revision_seq, cast_at`
	selectReviewersQuery  = `SELECT reviewer_id FROM pr_reviewers WHERE pr_id=$1 ORDER BY reviewer_id`
	insertReviewerQuery   = `INSERT INTO pr_reviewers(pr_id, reviewer_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	insertInvitationQuery = `
INSERT INTO vote_invitations(id, pr_id, reviewer_id)
VALUES ($1,$2,$3)
ON CONFLICT (pr_id, reviewer_id) DO NOTHING`
	selectInvitationQuery = `
SELECT id::text, pr_id, reviewer_id, created_at, resolved_at
FROM vote_invitations WHERE pr_id=$1 AND reviewer_id=$2`
	closePRQuery = `
UPDATE pull_requests SET status=$2, closed_at=NOW()
WHERE id=$1
RETURNING closed_at`
	resolveAllInvitationsQuery = `UPDATE vote_invitations SET resolved_at=NOW() WHERE pr_id=$1 AND resolved_at IS NULL`
)

// CreatePR inserts an open PR together with its first revision.
func (p *Postgres) CreatePR(ctx context.Context, pr entities.PullRequest, first entities.Revision) (*entities.PullRequest, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := getUser(ctx, tx, pr.SubmitterID); err != nil {
		p.log.Errorw("failed to query submitter", "error", err, "user_id", pr.SubmitterID)
		return nil, err
	}
	if first.AuthorID == "" {
		first.AuthorID = pr.SubmitterID
	}

	if _, err := tx.Exec(ctx, insertPRQuery, pr.ID, pr.Title, pr.SubmitterID); err != nil {
		p.log.Errorw("failed to insert pull request", "error", err, "id", pr.ID)
		if pgCode(err) == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", entities.ErrPRExists, pr.ID)
		}
		return nil, fmt.Errorf("insert pr: %w", err)
	}

	if _, err := p.insertRevision(ctx, tx, pr.ID, 1, first); err != nil {
		return nil, err
	}

	created, err := p.loadPR(ctx, tx, pr.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("pr created", "pr_id", pr.ID, "submitter_id", pr.SubmitterID)
	return created, nil
}

// AddRevision appends a revision with the next sequence number.
func (p *Postgres) AddRevision(ctx context.Context, rev entities.Revision) (*entities.Revision, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := p.lockPR(ctx, tx, rev.PullRequestID)
	if err != nil {
		return nil, err
	}
	if status.Closed() {
		return nil, fmt.Errorf("%w: %s", entities.ErrPRClosed, rev.PullRequestID)
	}

	var seq int
	if err := tx.QueryRow(ctx, nextRevisionSeqQuery, rev.PullRequestID).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next revision: %w", err)
	}

	created, err := p.insertRevision(ctx, tx, rev.PullRequestID, seq, rev)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("revision added", "pr_id", rev.PullRequestID, "seq", seq)
	return created, nil
}

// GetPR loads the PR with its revisions, votes and reviewers.
func (p *Postgres) GetPR(ctx context.Context, prID string) (*entities.PullRequest, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pr, err := p.loadPR(ctx, tx, prID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return pr, nil
}

// AddReviewer assigns a reviewer and opens a vote invitation. Repeated calls
// return the existing invitation.
func (p *Postgres) AddReviewer(ctx context.Context, prID, reviewerID string) (*entities.VoteInvitation, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := p.lockPR(ctx, tx, prID)
	if err != nil {
		return nil, err
	}
	if status.Closed() {
		return nil, fmt.Errorf("%w: %s", entities.ErrPRClosed, prID)
	}
	if _, err := getUser(ctx, tx, reviewerID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, insertReviewerQuery, prID, reviewerID); err != nil {
		p.log.Errorw("failed to insert reviewer", "error", err, "pr_id", prID, "reviewer_id", reviewerID)
		return nil, fmt.Errorf("insert reviewer: %w", err)
	}
	if _, err := tx.Exec(ctx, insertInvitationQuery, uuid.NewString(), prID, reviewerID); err != nil {
		p.log.Errorw("failed to insert invitation", "error", err, "pr_id", prID, "reviewer_id", reviewerID)
		return nil, fmt.Errorf("insert invitation: %w", err)
	}

	var inv entities.VoteInvitation
	if err := tx.QueryRow(ctx, selectInvitationQuery, prID, reviewerID).
		Scan(&inv.ID, &inv.PullRequestID, &inv.ReviewerID, &inv.CreatedAt, &inv.ResolvedAt); err != nil {
		return nil, fmt.Errorf("select invitation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("reviewer added", "pr_id", prID, "reviewer_id", reviewerID, "invitation_id", inv.ID)
	return &inv, nil
}

// ClosePR marks the PR merged or discarded and resolves open invitations.
// Closing again with the same status is a no-op.
func (p *Postgres) ClosePR(ctx context.Context, prID string, status entities.PullRequestStatus) (*entities.PullRequest, error) {
	if !status.Closed() {
		return nil, fmt.Errorf("%w: cannot close with status %s", entities.ErrInvalidArgument, status)
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := p.lockPR(ctx, tx, prID)
	if err != nil {
		return nil, err
	}

	switch {
	case current == status:
	case current.Closed():
		return nil, fmt.Errorf("%w: %s is %s", entities.ErrPRClosed, prID, current)
	default:
		var closedAt time.Time
		if err := tx.QueryRow(ctx, closePRQuery, prID, string(status)).Scan(&closedAt); err != nil {
			p.log.Errorw("failed to close pr", "error", err, "pr_id", prID)
			return nil, fmt.Errorf("close pr: %w", err)
		}
		if _, err := tx.Exec(ctx, resolveAllInvitationsQuery, prID); err != nil {
			return nil, fmt.Errorf("resolve invitations: %w", err)
		}
	}

	pr, err := p.loadPR(ctx, tx, prID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("pr closed", "pr_id", prID, "status", status)
	return pr, nil
}

func (p *Postgres) lockPR(ctx context.Context, tx pgx.Tx, prID string) (entities.PullRequestStatus, error) {
	var status entities.PullRequestStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM pull_requests WHERE id=$1 FOR UPDATE`, prID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", entities.ErrPRNotFound, prID)
		}
		p.log.Errorw("failed to lock pr", "error", err, "pr_id", prID)
		return "", fmt.Errorf("lock pr: %w", err)
	}
	return status, nil
}

func (p *Postgres) insertRevision(ctx context.Context, tx pgx.Tx, prID string, seq int, rev entities.Revision) (*entities.Revision, error) {
	if _, err := getUser(ctx, tx, rev.AuthorID); err != nil {
		return nil, err
	}

	created := entities.Revision{PullRequestID: prID, Seq: seq, AuthorID: rev.AuthorID, CommitHash: rev.CommitHash}
	if err := tx.QueryRow(ctx, insertRevisionQuery, prID, seq, rev.AuthorID, rev.CommitHash).Scan(&created.CreatedAt); err != nil {
		p.log.Errorw("failed to insert revision", "error", err, "pr_id", prID, "seq", seq)
		return nil, fmt.Errorf("insert revision: %w", err)
	}
	return &created, nil
}

func (p *Postgres) loadPR(ctx context.Context, q querier, prID string) (*entities.PullRequest, error) {
	var pr entities.PullRequest
	var createdAt time.Time
	if err := q.QueryRow(ctx, selectPRQuery, prID).
		Scan(&pr.ID, &pr.Title, &pr.SubmitterID, &pr.Status, &createdAt, &pr.ClosedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", entities.ErrPRNotFound, prID)
		}
		p.log.Errorw("failed to select pr", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("get pr: %w", err)
	}
	pr.CreatedAt = &createdAt

	revisions, err := p.readRevisions(ctx, q, prID)
	if err != nil {
		return nil, err
	}
	pr.Revisions = revisions

	votes, err := p.readVotes(ctx, q, prID)
	if err != nil {
		return nil, err
	}
	pr.Votes = votes

	reviewers, err := p.readReviewers(ctx, q, prID)
	if err != nil {
		return nil, err
	}
	pr.Reviewers = reviewers

	return &pr, nil
}

func (p *Postgres) readRevisions(ctx context.Context, q querier, prID string) ([]entities.Revision, error) {
	rows, err := q.Query(ctx, selectRevisionsQuery, prID)
	if err != nil {
		p.log.Errorw("failed to select revisions", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("select revisions: %w", err)
	}
	defer rows.Close()

	revs := make([]entities.Revision, 0)
	for rows.Next() {
		var r entities.Revision
		if err := rows.Scan(&r.PullRequestID, &r.Seq, &r.AuthorID, &r.CommitHash, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revs, nil
}

func (p *Postgres) readVotes(ctx context.Context, q querier, prID string) ([]entities.Vote, error) {
	rows, err := q.Query(ctx, selectVotesQuery, prID)
	if err != nil {
		p.log.Errorw("failed to select votes", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("select votes: %w", err)
	}
	defer rows.Close()

	votes := make([]entities.Vote, 0)
	for rows.Next() {
		var v entities.Vote
		if err := rows.Scan(&v.PullRequestID, &v.RevisionSeq, &v.ReviewerID, &v.Result, &v.Comment, &v.CastAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return votes, nil
}

func (p *Postgres) readReviewers(ctx context.Context, q querier, prID string) ([]string, error) {
	rows, err := q.Query(ctx, selectReviewersQuery, prID)
	if err != nil {
		p.log.Errorw("failed to select reviewers", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("select reviewers: %w", err)
	}
	defer rows.Close()
	revs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			p.log.Errorw("failed to scan reviewer", "error", err)
			return nil, err
		}
		revs = append(revs, id)
	}
	if err := rows.Err(); err != nil {
		p.log.Errorw("error iterating reviewers", "error", err)
		return nil, err
	}
	return revs, nil
}
