package domain

import (
	"context"
	"fmt"
	"strings"

	"review-consensus-guard/internal/entities"
)

// RegisterUser creates a user or updates its profile.
func (u *Usecase) RegisterUser(ctx context.Context, user entities.User) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user.ID = strings.TrimSpace(user.ID)
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" || user.Name == "" {
		return nil, fmt.Errorf("%w: user_id and name are required", entities.ErrInvalidArgument)
	}
	return u.repo.UpsertUser(ctx, user)
}

// ReviewerInvitations lists vote invitations addressed to a reviewer.
func (u *Usecase) ReviewerInvitations(ctx context.Context, userID string, pendingOnly bool) ([]entities.VoteInvitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.ListInvitations(ctx, userID, pendingOnly)
}
