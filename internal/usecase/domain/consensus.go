package domain

import (
	"context"
	"fmt"

	"review-consensus-guard/internal/consensus"
	"review-consensus-guard/internal/entities"
)

// CastVote records a vote. RevisionSeq 0 targets the latest revision.
// Votes on one pull request are serialized.
func (u *Usecase) CastVote(ctx context.Context, vote entities.Vote) (*entities.Vote, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if vote.PullRequestID == "" || vote.ReviewerID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if _, err := entities.ParseVoteResult(string(vote.Result)); err != nil {
		return nil, err
	}

	unlock := u.prLocks.Lock(vote.PullRequestID)
	defer unlock()

	pr, err := u.repo.GetPR(ctx, vote.PullRequestID)
	if err != nil {
		return nil, err
	}
	if pr.Status.Closed() {
		return nil, fmt.Errorf("%w: %s", entities.ErrPRClosed, pr.ID)
	}

	if vote.RevisionSeq == 0 {
		latest, ok := pr.LatestRevision()
		if !ok {
			return nil, fmt.Errorf("%w: %s has no revisions", entities.ErrRevisionNotFound, pr.ID)
		}
		vote.RevisionSeq = latest.Seq
	}

	tracker := consensus.New(*pr)
	if !tracker.HasRevision(vote.RevisionSeq) {
		return nil, fmt.Errorf("%w: %s#%d", entities.ErrRevisionNotFound, pr.ID, vote.RevisionSeq)
	}
	for _, prev := range tracker.Votes(vote.ReviewerID) {
		if prev.RevisionSeq == vote.RevisionSeq {
			return nil, fmt.Errorf("%w: %s already voted on %s#%d",
				entities.ErrVoteExists, vote.ReviewerID, pr.ID, vote.RevisionSeq)
		}
	}

	res, err := u.repo.CastVote(ctx, vote)
	if err != nil {
		return nil, err
	}
	u.log.Infow("vote cast", "pr_id", pr.ID, "seq", res.RevisionSeq, "reviewer_id", res.ReviewerID, "result", res.Result)
	return res, nil
}

// EffectiveVote returns the reviewer's opinion as of revision fromSeq.
// fromSeq 0 means the first revision; the result carries the resolved seq.
func (u *Usecase) EffectiveVote(ctx context.Context, prID, reviewerID string, fromSeq int) (entities.EffectiveVote, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" || reviewerID == "" {
		return entities.EffectiveVote{}, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}

	tracker, fromSeq, err := u.tracker(ctx, prID, fromSeq)
	if err != nil {
		return entities.EffectiveVote{}, err
	}
	result, ok := tracker.EffectiveVote(reviewerID, fromSeq)
	return entities.EffectiveVote{
		PullRequestID: prID,
		ReviewerID:    reviewerID,
		FromRevision:  fromSeq,
		Result:        result,
		Voted:         ok,
	}, nil
}

// Approval partitions the PR reviewers as of revision fromSeq. fromSeq 0
// means the first revision, so every vote counts.
func (u *Usecase) Approval(ctx context.Context, prID string, fromSeq int) (entities.Approval, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" {
		return entities.Approval{}, fmt.Errorf("%w: pull_request_id is required", entities.ErrInvalidArgument)
	}

	pr, err := u.repo.GetPR(ctx, prID)
	if err != nil {
		return entities.Approval{}, err
	}
	tracker, fromSeq, err := trackerFrom(pr, fromSeq)
	if err != nil {
		return entities.Approval{}, err
	}
	return tracker.Aggregate(pr.Reviewers, fromSeq), nil
}

func (u *Usecase) tracker(ctx context.Context, prID string, fromSeq int) (*consensus.Tracker, int, error) {
	pr, err := u.repo.GetPR(ctx, prID)
	if err != nil {
		return nil, 0, err
	}
	return trackerFrom(pr, fromSeq)
}

func trackerFrom(pr *entities.PullRequest, fromSeq int) (*consensus.Tracker, int, error) {
	if fromSeq < 0 {
		return nil, 0, fmt.Errorf("%w: negative revision", entities.ErrInvalidArgument)
	}
	if fromSeq == 0 && len(pr.Revisions) > 0 {
		fromSeq = pr.Revisions[0].Seq
	}

	tracker := consensus.New(*pr)
	if !tracker.HasRevision(fromSeq) {
		return nil, 0, fmt.Errorf("%w: %s#%d", entities.ErrRevisionNotFound, pr.ID, fromSeq)
	}
	return tracker, fromSeq, nil
}
