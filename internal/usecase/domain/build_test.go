package domain

import (
	"context"
	"testing"
	"time"

	"review-consensus-guard/internal/entities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memRefs is an in-memory ref store with create-if-absent and
// compare-and-delete semantics.
type memRefs struct {
	tags    map[string]string
	created []string
}

func (m *memRefs) GetTagRef(_ context.Context, name string) (*entities.RefHandle, error) {
	id, ok := m.tags[name]
	if !ok {
		return nil, nil
	}
	return &entities.RefHandle{Name: name, ObjectID: id}, nil
}

func (m *memRefs) CreateTag(_ context.Context, name, commitHash string, _ entities.PersonIdent, _ string) (entities.RefHandle, error) {
	if _, ok := m.tags[name]; ok {
		return entities.RefHandle{}, entities.ErrRefExists
	}
	m.tags[name] = commitHash
	m.created = append(m.created, name)
	return entities.RefHandle{Name: name, ObjectID: commitHash}, nil
}

func (m *memRefs) DeleteTag(_ context.Context, ref entities.RefHandle) error {
	id, ok := m.tags[ref.Name]
	if !ok {
		return entities.ErrRefNotFound
	}
	if id != ref.ObjectID {
		return entities.ErrRefChanged
	}
	delete(m.tags, ref.Name)
	return nil
}

const buildSpec = `
jobs:
  - name: release
    post_build_actions:
      - type: create_tag
        tag_name: build-@build_number@
      - type: create_tag
        tag_name: v1.0
      - type: create_tag
        tag_name: never-reached
`

var releaseBuild = entities.Build{ProjectID: "core", Number: 42, JobName: "release", Branch: "main", CommitHash: "c42"}

func TestUsecase_RunBuildActionsStopsAtFirstFailure(t *testing.T) {
	repo := &repoMock{}
	refs := &memRefs{tags: map[string]string{"v1.0": "c1"}}
	uc := newUsecase(repo, Options{Refs: refs, Tagger: entities.PersonIdent{Name: "system", Email: "system@localhost"}})

	repo.On("ListTagProtections", mock.Anything, "core").Return([]entities.TagProtection{
		{ProjectID: "core", Tags: "v*", PreventUpdate: true},
	}, nil)

	results, err := uc.RunBuildActions(context.Background(), releaseBuild, []byte(buildSpec))
	require.ErrorIs(t, err, entities.ErrPolicyViolation)
	require.EqualError(t, err, "Updating tag 'v1.0' is not allowed in this build")
	require.Len(t, results, 2)
	require.Equal(t, entities.TagCreated, results[0].Outcome)
	require.Equal(t, "build-42", results[0].Ref)
	require.Equal(t, entities.TagRejected, results[1].Outcome)
	require.Equal(t, []string{"build-42"}, refs.created)
	require.Equal(t, "c1", refs.tags["v1.0"])
}

func TestUsecase_RunBuildActionsUnknownJob(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, Options{Refs: &memRefs{tags: map[string]string{}}})

	build := releaseBuild
	build.JobName = "deploy"
	_, err := uc.RunBuildActions(context.Background(), build, []byte(buildSpec))
	require.ErrorIs(t, err, entities.ErrJobNotFound)

	_, err = uc.RunBuildActions(context.Background(), releaseBuild, []byte("jobs:\n  - name: release\n    post_build_actions:\n      - type: push\n"))
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_CreateTagReplacesUnprotectedTag(t *testing.T) {
	repo := &repoMock{}
	refs := &memRefs{tags: map[string]string{"latest": "c1"}}
	uc := newUsecase(repo, Options{Refs: refs})
	repo.On("ListTagProtections", mock.Anything, "core").Return([]entities.TagProtection{}, nil)

	res, err := uc.CreateTag(context.Background(), releaseBuild, "latest", "")
	require.NoError(t, err)
	require.Equal(t, entities.ActionResult{Action: "create_tag", Ref: "latest", Outcome: entities.TagReplaced}, res)
	require.Equal(t, "c42", refs.tags["latest"])
}

func TestUsecase_CreateTagRequiresRefStore(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, Options{})

	_, err := uc.CreateTag(context.Background(), releaseBuild, "v1", "")
	require.ErrorIs(t, err, errNoRefStore)

	_, err = uc.CreateTag(context.Background(), releaseBuild, "", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

// deadlineRefs records the deadline ref store calls run under.
type deadlineRefs struct {
	*memRefs
	deadline time.Time
}

func (d *deadlineRefs) GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error) {
	d.deadline, _ = ctx.Deadline()
	return d.memRefs.GetTagRef(ctx, name)
}

func TestUsecase_CreateTagRunsUnderRefTimeout(t *testing.T) {
	repo := &repoMock{}
	refs := &deadlineRefs{memRefs: &memRefs{tags: map[string]string{}}}
	uc := newUsecase(repo, Options{Refs: refs, Tagger: entities.PersonIdent{Name: "system"}, RefTimeout: time.Minute})

	repo.On("ListTagProtections", mock.Anything, "core").Return([]entities.TagProtection{}, nil)

	_, err := uc.CreateTag(context.Background(), releaseBuild, "v2.0", "")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), refs.deadline, 5*time.Second)
}
