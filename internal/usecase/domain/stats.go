// Package domain contains application services orchestrating domain logic by statistics.
package domain

import (
	"context"
	"fmt"

	"review-consensus-guard/internal/entities"
)

// Stats returns aggregated stats.
func (u *Usecase) Stats(ctx context.Context) (entities.Stats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.Stats(ctx)
}

// ReviewerStats returns stats for a specific reviewer.
func (u *Usecase) ReviewerStats(ctx context.Context, userID string, limit int) (entities.ReviewerStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return entities.ReviewerStats{}, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 10
	}
	return u.repo.ReviewerStats(ctx, userID, limit)
}
