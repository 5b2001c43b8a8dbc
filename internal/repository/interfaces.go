// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"review-consensus-guard/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	UpsertUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	ListInvitations(ctx context.Context, userID string, pendingOnly bool) ([]entities.VoteInvitation, error)
}

// PullRequestInterface exposes PR-related operations.
type PullRequestInterface interface {
	CreatePR(ctx context.Context, pr entities.PullRequest, first entities.Revision) (*entities.PullRequest, error)
	AddRevision(ctx context.Context, rev entities.Revision) (*entities.Revision, error)
	GetPR(ctx context.Context, prID string) (*entities.PullRequest, error)
	AddReviewer(ctx context.Context, prID, reviewerID string) (*entities.VoteInvitation, error)
	ClosePR(ctx context.Context, prID string, status entities.PullRequestStatus) (*entities.PullRequest, error)
}

// VoteInterface exposes vote casting.
type VoteInterface interface {
	CastVote(ctx context.Context, vote entities.Vote) (*entities.Vote, error)
}

// ProtectionInterface exposes tag protection rule storage.
type ProtectionInterface interface {
	ReplaceTagProtections(ctx context.Context, projectID string, rules []entities.TagProtection) ([]entities.TagProtection, error)
	ListTagProtections(ctx context.Context, projectID string) ([]entities.TagProtection, error)
}

// StatsInterface exposes aggregated statistics operations.
type StatsInterface interface {
	Stats(ctx context.Context) (entities.Stats, error)
	ReviewerStats(ctx context.Context, userID string, limit int) (entities.ReviewerStats, error)
}
