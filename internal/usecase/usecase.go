package usecase

import (
	"context"
	"time"

	"review-consensus-guard/internal/repository"
	"review-consensus-guard/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	UserUsecaseInterface
	PullRequestUsecaseInterface
	ConsensusUsecaseInterface
	ProtectionUsecaseInterface
	BuildUsecaseInterface
	StatsUsecaseInterface
}

// Options re-exports the optional collaborators of the usecase layer.
type Options = domain.Options

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, timeout time.Duration, opts Options) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, opts)
}
