package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/protection"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type refStoreMock struct {
	mock.Mock
	calls []string
}

func (m *refStoreMock) GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error) {
	m.calls = append(m.calls, "get:"+name)
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RefHandle), args.Error(1)
}

func (m *refStoreMock) CreateTag(ctx context.Context, name, commitHash string, tagger entities.PersonIdent, message string) (entities.RefHandle, error) {
	m.calls = append(m.calls, "create:"+name)
	args := m.Called(ctx, name, commitHash, tagger, message)
	return args.Get(0).(entities.RefHandle), args.Error(1)
}

func (m *refStoreMock) DeleteTag(ctx context.Context, ref entities.RefHandle) error {
	m.calls = append(m.calls, "delete:"+ref.Name)
	args := m.Called(ctx, ref)
	return args.Error(0)
}

var (
	system = entities.PersonIdent{Name: "system", Email: "system@localhost"}
	build  = entities.Build{ProjectID: "core", Number: 7, JobName: "release", Branch: "main", CommitHash: "c0ffee"}
	v1Ref  = &entities.RefHandle{Name: "v1.0", ObjectID: "old"}
)

func deps(t *testing.T, refs *refStoreMock, rules ...entities.TagProtection) Deps {
	t.Helper()

	policy, err := protection.New(entities.CombineOr, rules)
	require.NoError(t, err)
	return Deps{Refs: refs, Policy: policy, Tagger: system, Log: zap.NewNop().Sugar()}
}

func TestCreateTagCreatesMissingTag(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(nil, nil)
	refs.On("CreateTag", mock.Anything, "v1.0", "c0ffee", system, "release 7").
		Return(entities.RefHandle{Name: "v1.0", ObjectID: "new"}, nil).Once()

	res, err := CreateTag{TagName: "v1.0", TagMessage: "release @build_number@"}.Execute(context.Background(), build, deps(t, refs))
	require.NoError(t, err)
	require.Equal(t, entities.ActionResult{Action: "create_tag", Ref: "v1.0", Outcome: entities.TagCreated}, res)
	require.Equal(t, []string{"get:v1.0", "create:v1.0"}, refs.calls)
	refs.AssertExpectations(t)
}

func TestCreateTagRejectsProtectedUpdate(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(v1Ref, nil)

	res, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs,
		entities.TagProtection{ProjectID: "core", Tags: "v*", PreventUpdate: true},
	))
	require.ErrorIs(t, err, entities.ErrPolicyViolation)
	require.EqualError(t, err, "Updating tag 'v1.0' is not allowed in this build")
	require.Equal(t, entities.TagRejected, res.Outcome)
	refs.AssertNotCalled(t, "DeleteTag", mock.Anything, mock.Anything)
	refs.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTagRejectsProtectedCreation(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(nil, nil)

	res, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs,
		entities.TagProtection{ProjectID: "core", Tags: "**", PreventCreation: true},
	))
	require.ErrorIs(t, err, entities.ErrPolicyViolation)
	require.EqualError(t, err, "Creating tag 'v1.0' is not allowed in this build")
	require.Equal(t, entities.TagRejected, res.Outcome)
	require.Equal(t, []string{"get:v1.0"}, refs.calls)
}

func TestCreateTagReplacesExistingTag(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(v1Ref, nil)
	refs.On("DeleteTag", mock.Anything, *v1Ref).Return(nil).Once()
	refs.On("CreateTag", mock.Anything, "v1.0", "c0ffee", system, "").
		Return(entities.RefHandle{Name: "v1.0", ObjectID: "new"}, nil).Once()

	res, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs,
		entities.TagProtection{ProjectID: "core", Tags: "v*", PreventCreation: true},
	))
	require.NoError(t, err)
	require.Equal(t, entities.TagReplaced, res.Outcome)
	require.Equal(t, []string{"get:v1.0", "delete:v1.0", "create:v1.0"}, refs.calls)
	refs.AssertExpectations(t)
}

func TestCreateTagConflictWhenRecreateRaces(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(v1Ref, nil)
	refs.On("DeleteTag", mock.Anything, *v1Ref).Return(nil)
	refs.On("CreateTag", mock.Anything, "v1.0", "c0ffee", system, "").
		Return(entities.RefHandle{}, entities.ErrRefExists)

	_, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs))
	require.ErrorIs(t, err, entities.ErrConflict)
	require.ErrorIs(t, err, entities.ErrRefExists)

	var conflict *entities.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, "v1.0", conflict.Ref)
}

func TestCreateTagConflictWhenRefMoved(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(v1Ref, nil)
	refs.On("DeleteTag", mock.Anything, *v1Ref).Return(entities.ErrRefChanged)

	_, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs))
	require.ErrorIs(t, err, entities.ErrConflict)
	refs.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTagConflictWhenCreatedConcurrently(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(nil, nil)
	refs.On("CreateTag", mock.Anything, "v1.0", "c0ffee", system, "").
		Return(entities.RefHandle{}, entities.ErrRefExists)

	_, err := CreateTag{TagName: "v1.0"}.Execute(context.Background(), build, deps(t, refs))
	require.ErrorIs(t, err, entities.ErrConflict)
}

func TestCreateTagInterpolationFailsBeforeLookup(t *testing.T) {
	refs := &refStoreMock{}

	_, err := CreateTag{TagName: "v@unknown@"}.Execute(context.Background(), build, deps(t, refs))
	require.ErrorIs(t, err, entities.ErrInterpolation)

	_, err = CreateTag{TagName: "v1", TagMessage: "@broken"}.Execute(context.Background(), build, deps(t, refs))
	require.ErrorIs(t, err, entities.ErrInterpolation)
	require.Empty(t, refs.calls)
}

func TestCreateTagEscapedName(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "literal@tag").Return(nil, nil)
	refs.On("CreateTag", mock.Anything, "literal@tag", "c0ffee", system, "").
		Return(entities.RefHandle{Name: "literal@tag"}, nil)

	res, err := CreateTag{TagName: `literal\@tag`}.Execute(context.Background(), build, deps(t, refs))
	require.NoError(t, err)
	require.Equal(t, "literal@tag", res.Ref)
}

func TestCreateTagCancelledBeforeMutation(t *testing.T) {
	refs := &refStoreMock{}
	refs.On("GetTagRef", mock.Anything, "v1.0").Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CreateTag{TagName: "v1.0"}.Execute(ctx, build, deps(t, refs))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"get:v1.0"}, refs.calls)
}

func TestCreateTagValidate(t *testing.T) {
	require.ErrorIs(t, CreateTag{TagName: "  "}.Validate(), entities.ErrInvalidArgument)
	require.NoError(t, CreateTag{TagName: "v@build_number@"}.Validate())
	require.Equal(t, KindCreateTag, CreateTag{}.Kind())
}

// cancellingRefs cancels the caller's context while deleting and, like the
// git CLI backend, fails calls whose context is done.
type cancellingRefs struct {
	cancel  context.CancelFunc
	tags    map[string]string
	calls   []string
	created context.Context
}

func (r *cancellingRefs) GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error) {
	r.calls = append(r.calls, "get:"+name)
	if id, ok := r.tags[name]; ok {
		return &entities.RefHandle{Name: name, ObjectID: id}, nil
	}
	return nil, nil
}

func (r *cancellingRefs) CreateTag(ctx context.Context, name, commitHash string, _ entities.PersonIdent, _ string) (entities.RefHandle, error) {
	r.calls = append(r.calls, "create:"+name)
	r.created = ctx
	if err := ctx.Err(); err != nil {
		return entities.RefHandle{}, err
	}
	r.tags[name] = commitHash
	return entities.RefHandle{Name: name, ObjectID: commitHash}, nil
}

func (r *cancellingRefs) DeleteTag(ctx context.Context, ref entities.RefHandle) error {
	r.calls = append(r.calls, "delete:"+ref.Name)
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(r.tags, ref.Name)
	r.cancel()
	return nil
}

func TestCreateTagRecreatesAfterCancelDuringDelete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refs := &cancellingRefs{cancel: cancel, tags: map[string]string{"v1.0": "old"}}

	policy, err := protection.New(entities.CombineOr, nil)
	require.NoError(t, err)
	d := Deps{Refs: refs, Policy: policy, Tagger: system, Log: zap.NewNop().Sugar(), MutationTimeout: time.Minute}

	res, err := CreateTag{TagName: "v1.0"}.Execute(ctx, build, d)
	require.NoError(t, err)
	require.Equal(t, entities.TagReplaced, res.Outcome)
	require.Equal(t, "c0ffee", refs.tags["v1.0"])
	require.Equal(t, []string{"get:v1.0", "delete:v1.0", "create:v1.0"}, refs.calls)

	deadline, ok := refs.created.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
