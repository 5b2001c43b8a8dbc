package domain

import (
	"context"
	"time"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/gitref"
	"review-consensus-guard/internal/repository"

	"go.uber.org/zap"
)

// Options carries the collaborators used by build actions.
type Options struct {
	Refs    gitref.RefStore
	Tagger  entities.PersonIdent
	Combine entities.CombineStrategy
	// RefTimeout bounds a run of build actions in place of the request
	// timeout. Zero falls back to the request timeout.
	RefTimeout time.Duration
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration

	refs    gitref.RefStore
	tagger  entities.PersonIdent
	combine entities.CombineStrategy
	prLocks *keyedMutex

	refTimeout time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	opts Options,
) *Usecase {
	combine := opts.Combine
	if combine == "" {
		combine = entities.CombineOr
	}
	return &Usecase{
		ctx:     ctx,
		log:     log.Named("usecase"),
		repo:    repo,
		timeout: timeout,
		refs:    opts.Refs,
		tagger:  opts.Tagger,
		combine: combine,
		prLocks: newKeyedMutex(),

		refTimeout: opts.RefTimeout,
	}
}

func (u *Usecase) actionTimeout() time.Duration {
	if u.refTimeout > 0 {
		return u.refTimeout
	}
	return u.timeout
}

// withTimeout bounds a request by the configured timeout; zero disables it.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
