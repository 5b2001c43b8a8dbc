package domain

import (
	"context"
	"errors"
	"fmt"

	"review-consensus-guard/internal/action"
	"review-consensus-guard/internal/buildspec"
	"review-consensus-guard/internal/entities"
)

var errNoRefStore = errors.New("ref store is not configured")

// CreateTag runs a single create_tag action for build.
func (u *Usecase) CreateTag(ctx context.Context, build entities.Build, tagName, tagMessage string) (entities.ActionResult, error) {
	a := action.CreateTag{TagName: tagName, TagMessage: tagMessage}
	if err := a.Validate(); err != nil {
		return entities.ActionResult{}, err
	}

	results, err := u.runActions(ctx, build, []action.Action{a})
	if len(results) == 0 {
		return entities.ActionResult{Action: string(a.Kind())}, err
	}
	return results[0], err
}

// RunBuildActions executes the post-build actions of the build's job in
// order and stops at the first failure. Results of the actions that ran are
// returned along with the error.
func (u *Usecase) RunBuildActions(ctx context.Context, build entities.Build, specYAML []byte) ([]entities.ActionResult, error) {
	spec, err := buildspec.Parse(specYAML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}
	job, err := spec.Job(build.JobName)
	if err != nil {
		return nil, err
	}
	return u.runActions(ctx, build, job.Actions())
}

func (u *Usecase) runActions(ctx context.Context, build entities.Build, actions []action.Action) ([]entities.ActionResult, error) {
	ctx, cancel := withTimeout(ctx, u.actionTimeout())
	defer cancel()

	if build.ProjectID == "" || build.JobName == "" || build.CommitHash == "" {
		return nil, fmt.Errorf("%w: project_id, job_name and commit_hash are required", entities.ErrInvalidArgument)
	}
	if u.refs == nil {
		return nil, errNoRefStore
	}

	policy, err := u.policy(ctx, build.ProjectID)
	if err != nil {
		return nil, err
	}
	deps := action.Deps{
		Refs:   u.refs,
		Policy: policy,
		Tagger: u.tagger,
		Log:    u.log.Named("action"),

		MutationTimeout: u.refTimeout,
	}

	return action.Run(ctx, build, actions, deps)
}
