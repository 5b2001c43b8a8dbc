package usecase

import (
	"context"

	"review-consensus-guard/internal/entities"
)

// UserUsecaseInterface abstracts user-related operations for delivery layer.
type UserUsecaseInterface interface {
	RegisterUser(ctx context.Context, user entities.User) (*entities.User, error)
	ReviewerInvitations(ctx context.Context, userID string, pendingOnly bool) ([]entities.VoteInvitation, error)
}

// PullRequestUsecaseInterface abstracts PR-related operations.
type PullRequestUsecaseInterface interface {
	CreatePullRequest(ctx context.Context, pr entities.PullRequest, commitHash string) (*entities.PullRequest, error)
	AddRevision(ctx context.Context, rev entities.Revision) (*entities.Revision, error)
	AddReviewer(ctx context.Context, prID, reviewerID string) (*entities.VoteInvitation, error)
	ClosePullRequest(ctx context.Context, prID string, status entities.PullRequestStatus) (*entities.PullRequest, error)
	PullRequest(ctx context.Context, prID string) (*entities.PullRequest, error)
}

// ConsensusUsecaseInterface abstracts voting and approval queries.
type ConsensusUsecaseInterface interface {
	CastVote(ctx context.Context, vote entities.Vote) (*entities.Vote, error)
	EffectiveVote(ctx context.Context, prID, reviewerID string, fromSeq int) (entities.EffectiveVote, error)
	Approval(ctx context.Context, prID string, fromSeq int) (entities.Approval, error)
}

// ProtectionUsecaseInterface abstracts tag protection administration.
type ProtectionUsecaseInterface interface {
	SetTagProtections(ctx context.Context, projectID string, rules []entities.TagProtection) ([]entities.TagProtection, error)
	TagProtections(ctx context.Context, projectID string) ([]entities.TagProtection, error)
	EvaluateTagProtection(ctx context.Context, tagName string, build entities.Build) (entities.ProtectionDecision, error)
}

// BuildUsecaseInterface abstracts post-build actions.
type BuildUsecaseInterface interface {
	CreateTag(ctx context.Context, build entities.Build, tagName, tagMessage string) (entities.ActionResult, error)
	RunBuildActions(ctx context.Context, build entities.Build, specYAML []byte) ([]entities.ActionResult, error)
}

// StatsUsecaseInterface abstracts statistics operations.
type StatsUsecaseInterface interface {
	Stats(ctx context.Context) (entities.Stats, error)
	ReviewerStats(ctx context.Context, userID string, limit int) (entities.ReviewerStats, error)
}
