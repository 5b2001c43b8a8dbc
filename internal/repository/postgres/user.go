package postgres

import (
	"context"
	"errors"
	"fmt"

	"review-consensus-guard/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	upsertUserQuery = `
INSERT INTO users(id, name, full_name, email, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    full_name = EXCLUDED.full_name,
    email = EXCLUDED.email,
    is_active = EXCLUDED.is_active
RETURNING id, name, full_name, email, is_active`
	selectUserQuery        = `SELECT id, name, full_name, email, is_active FROM users WHERE id=$1`
	selectInvitationsQuery = `
SELECT id::text, pr_id, reviewer_id, created_at, resolved_at
FROM vote_invitations
WHERE reviewer_id = $1 AND ($2::boolean = false OR resolved_at IS NULL)
ORDER BY created_at DESC`
)

// UpsertUser creates the user or refreshes its profile.
func (p *Postgres) UpsertUser(ctx context.Context, user entities.User) (*entities.User, error) {
	var u entities.User
	err := p.db.QueryRow(ctx, upsertUserQuery, user.ID, user.Name, user.FullName, user.Email, user.IsActive).
		Scan(&u.ID, &u.Name, &u.FullName, &u.Email, &u.IsActive)
	if err != nil {
		p.log.Errorw("failed to upsert user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	p.log.Infow("user upserted", "user_id", u.ID, "is_active", u.IsActive)
	return &u, nil
}

// GetUser fetches a user by id.
func (p *Postgres) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	return getUser(ctx, p.db, userID)
}

func getUser(ctx context.Context, q querier, userID string) (*entities.User, error) {
	var u entities.User
	err := q.QueryRow(ctx, selectUserQuery, userID).Scan(&u.ID, &u.Name, &u.FullName, &u.Email, &u.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", entities.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListInvitations returns the vote invitations of a reviewer, newest first.
func (p *Postgres) ListInvitations(ctx context.Context, userID string, pendingOnly bool) ([]entities.VoteInvitation, error) {
	if _, err := p.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectInvitationsQuery, userID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]entities.VoteInvitation, 0)
	for rows.Next() {
		var inv entities.VoteInvitation
		if err := rows.Scan(&inv.ID, &inv.PullRequestID, &inv.ReviewerID, &inv.CreatedAt, &inv.ResolvedAt); err != nil {
			p.log.Errorw("failed to scan invitation", "error", err, "user_id", userID)
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		p.log.Errorw("failed to iterate invitations", "error", err, "user_id", userID)
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}

	return invitations, nil
}
