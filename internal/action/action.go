// Package action holds the post-build actions a build spec may declare.
// The set of kinds is closed: every kind is a type of this package and is
// chosen when the build spec is parsed.
package action

import (
	"context"
	"time"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/gitref"

	"go.uber.org/zap"
)

// Kind names an action in build specs.
type Kind string

const (
	// KindCreateTag creates or moves a tag to the build commit.
	KindCreateTag Kind = "create_tag"
)

// Policy decides which tag mutations a build may perform.
type Policy interface {
	Evaluate(tagName string, build entities.Build) entities.ProtectionDecision
}

// DefaultMutationTimeout bounds a mutation that must complete once its
// predecessor was issued.
const DefaultMutationTimeout = 30 * time.Second

// Deps are the collaborators actions run against.
type Deps struct {
	Refs   gitref.RefStore
	Policy Policy
	Tagger entities.PersonIdent
	Log    *zap.SugaredLogger
	// MutationTimeout bounds the recreate of a replaced tag, which runs
	// detached from the caller's cancellation. Zero means DefaultMutationTimeout.
	MutationTimeout time.Duration
}

func (d Deps) mutationTimeout() time.Duration {
	if d.MutationTimeout <= 0 {
		return DefaultMutationTimeout
	}
	return d.MutationTimeout
}

func (d Deps) logger() *zap.SugaredLogger {
	if d.Log == nil {
		return zap.NewNop().Sugar()
	}
	return d.Log
}

// Action is a post-build step.
type Action interface {
	Kind() Kind
	Description() string
	Validate() error
	Execute(ctx context.Context, build entities.Build, deps Deps) (entities.ActionResult, error)

	sealed()
}

// Run executes actions in order and stops at the first failure. Results of
// the actions that ran are returned along with the error.
func Run(ctx context.Context, build entities.Build, actions []Action, deps Deps) ([]entities.ActionResult, error) {
	log := deps.logger()
	results := make([]entities.ActionResult, 0, len(actions))
	for i, a := range actions {
		res, err := a.Execute(ctx, build, deps)
		results = append(results, res)
		if err != nil {
			log.Warnw("post-build action failed",
				"project", build.ProjectID, "build", build.Number, "job", build.JobName,
				"index", i, "action", a.Description(), "error", err)
			return results, err
		}
	}
	return results, nil
}
