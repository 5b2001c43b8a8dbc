package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/interpolate"
)

// CreateTag tags the build commit. TagName and TagMessage may reference
// build variables.
type CreateTag struct {
	TagName    string `yaml:"tag_name" json:"tag_name"`
	TagMessage string `yaml:"tag_message,omitempty" json:"tag_message,omitempty"`
}

var _ Action = CreateTag{}

func (CreateTag) sealed() {}

// Kind implements Action.
func (CreateTag) Kind() Kind { return KindCreateTag }

// Description implements Action.
func (CreateTag) Description() string { return "Create tag" }

// Validate implements Action.
func (a CreateTag) Validate() error {
	if strings.TrimSpace(a.TagName) == "" {
		return fmt.Errorf("%w: tag_name is required", entities.ErrInvalidArgument)
	}
	return nil
}

// Execute creates the tag at the build commit, or replaces it when it
// exists, unless tag protection forbids it for this build.
//
// Replacing is delete followed by create and is not atomic. Another build
// may create the same tag in between; CreateTag then reports the tag as
// existing and the step fails with a ConflictError instead of overwriting
// it. Nothing is rolled back once a mutation was issued.
func (a CreateTag) Execute(ctx context.Context, build entities.Build, deps Deps) (entities.ActionResult, error) {
	res := entities.ActionResult{Action: string(KindCreateTag)}

	resolve := interpolate.ForBuild(build)
	tagName, err := interpolate.Interpolate(a.TagName, resolve)
	if err != nil {
		return res, fmt.Errorf("tag name: %w", err)
	}
	message, err := interpolate.Interpolate(a.TagMessage, resolve)
	if err != nil {
		return res, fmt.Errorf("tag message: %w", err)
	}
	if strings.TrimSpace(tagName) == "" {
		return res, fmt.Errorf("%w: tag name resolved to empty", entities.ErrInvalidArgument)
	}
	if build.CommitHash == "" {
		return res, fmt.Errorf("%w: build has no commit hash", entities.ErrInvalidArgument)
	}
	res.Ref = tagName

	log := deps.logger().With("tag", tagName, "project", build.ProjectID, "build", build.Number, "job", build.JobName)

	ref, err := deps.Refs.GetTagRef(ctx, tagName)
	if err != nil {
		return res, fmt.Errorf("lookup tag %s: %w", tagName, err)
	}
	protection := deps.Policy.Evaluate(tagName, build)

	if ref != nil {
		if protection.PreventUpdate {
			res.Outcome = entities.TagRejected
			log.Warnw("tag update rejected", "rules", protection.MatchedRules)
			return res, &entities.PolicyViolation{Ref: tagName, Operation: entities.OperationUpdate}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := deps.Refs.DeleteTag(ctx, *ref); err != nil {
			return res, mutationError(tagName, "delete", err)
		}
		// The old tag is gone; the recreate must not be dropped with the caller.
		createCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deps.mutationTimeout())
		defer cancel()
		if _, err := deps.Refs.CreateTag(createCtx, tagName, build.CommitHash, deps.Tagger, message); err != nil {
			return res, mutationError(tagName, "recreate", err)
		}
		res.Outcome = entities.TagReplaced
		log.Infow("tag replaced", "commit", build.CommitHash, "previous", ref.ObjectID)
		return res, nil
	}

	if protection.PreventCreation {
		res.Outcome = entities.TagRejected
		log.Warnw("tag creation rejected", "rules", protection.MatchedRules)
		return res, &entities.PolicyViolation{Ref: tagName, Operation: entities.OperationCreate}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if _, err := deps.Refs.CreateTag(ctx, tagName, build.CommitHash, deps.Tagger, message); err != nil {
		return res, mutationError(tagName, "create", err)
	}
	res.Outcome = entities.TagCreated
	log.Infow("tag created", "commit", build.CommitHash)
	return res, nil
}

func mutationError(tagName, op string, err error) error {
	if errors.Is(err, entities.ErrRefExists) ||
		errors.Is(err, entities.ErrRefNotFound) ||
		errors.Is(err, entities.ErrRefChanged) {
		return &entities.ConflictError{Ref: tagName, Err: err}
	}
	return fmt.Errorf("%s tag %s: %w", op, tagName, err)
}
