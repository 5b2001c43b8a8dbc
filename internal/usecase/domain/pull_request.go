// Package domain contains application services orchestrating domain logic by pull request.
package domain

import (
	"context"
	"fmt"

	"review-consensus-guard/internal/entities"
)

// CreatePullRequest opens a PR whose first revision points at commitHash.
func (u *Usecase) CreatePullRequest(ctx context.Context, pr entities.PullRequest, commitHash string) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if pr.ID == "" || pr.Title == "" || pr.SubmitterID == "" || commitHash == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	res, err := u.repo.CreatePR(ctx, pr, entities.Revision{AuthorID: pr.SubmitterID, CommitHash: commitHash})
	if err != nil {
		return nil, err
	}
	u.log.Infow("pr create", "pr_id", pr.ID)
	return res, nil
}

// AddRevision appends a revision; the sequence number is assigned by storage.
func (u *Usecase) AddRevision(ctx context.Context, rev entities.Revision) (*entities.Revision, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if rev.PullRequestID == "" || rev.AuthorID == "" || rev.CommitHash == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}

	unlock := u.prLocks.Lock(rev.PullRequestID)
	defer unlock()

	return u.repo.AddRevision(ctx, rev)
}

// AddReviewer invites a reviewer to vote.
func (u *Usecase) AddReviewer(ctx context.Context, prID, reviewerID string) (*entities.VoteInvitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" || reviewerID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	return u.repo.AddReviewer(ctx, prID, reviewerID)
}

// ClosePullRequest merges or discards a PR.
func (u *Usecase) ClosePullRequest(ctx context.Context, prID string, status entities.PullRequestStatus) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" {
		return nil, fmt.Errorf("%w: pull_request_id is required", entities.ErrInvalidArgument)
	}
	if !status.Closed() {
		return nil, fmt.Errorf("%w: status must be MERGED or DISCARDED", entities.ErrInvalidArgument)
	}

	unlock := u.prLocks.Lock(prID)
	defer unlock()

	return u.repo.ClosePR(ctx, prID, status)
}

// PullRequest returns the full PR snapshot.
func (u *Usecase) PullRequest(ctx context.Context, prID string) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" {
		return nil, fmt.Errorf("%w: pull_request_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetPR(ctx, prID)
}
