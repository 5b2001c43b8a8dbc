package protection

import (
	"testing"

	"review-consensus-guard/internal/entities"

	"github.com/stretchr/testify/require"
)

var releaseBuild = entities.Build{ProjectID: "core", JobName: "release", Branch: "main", CommitHash: "abc"}

func TestEvaluateNoRules(t *testing.T) {
	p, err := New("", nil)
	require.NoError(t, err)
	require.Equal(t, entities.CombineOr, p.Strategy())

	d := p.Evaluate("v1.0", releaseBuild)
	require.False(t, d.PreventCreation)
	require.False(t, d.PreventUpdate)
	require.Empty(t, d.MatchedRules)
}

func TestEvaluateOrCombinesMatches(t *testing.T) {
	p, err := New(entities.CombineOr, []entities.TagProtection{
		{ProjectID: "core", Position: 1, Tags: "v*", PreventUpdate: true},
		{ProjectID: "core", Position: 2, Tags: "**", PreventCreation: true, Branches: "feature/**"},
		{ProjectID: "core", Position: 3, Tags: "v1.*", PreventDeletion: true},
		{ProjectID: "other", Position: 4, Tags: "**", PreventCreation: true},
	})
	require.NoError(t, err)

	d := p.Evaluate("v1.0", releaseBuild)
	require.True(t, d.PreventUpdate)
	require.True(t, d.PreventDeletion)
	require.False(t, d.PreventCreation)
	require.Equal(t, []int{1, 3}, d.MatchedRules)

	feature := releaseBuild
	feature.Branch = "feature/x"
	d = p.Evaluate("v1.0", feature)
	require.True(t, d.PreventCreation)
	require.True(t, d.PreventUpdate)
}

func TestEvaluateLastMatchWins(t *testing.T) {
	p, err := New(entities.CombineLastMatch, []entities.TagProtection{
		{ProjectID: "core", Position: 2, Tags: "v1.*", PreventUpdate: false},
		{ProjectID: "core", Position: 1, Tags: "v*", PreventUpdate: true, PreventCreation: true},
	})
	require.NoError(t, err)

	d := p.Evaluate("v1.0", releaseBuild)
	require.False(t, d.PreventUpdate)
	require.False(t, d.PreventCreation)
	require.Equal(t, []int{1, 2}, d.MatchedRules)

	d = p.Evaluate("v2.0", releaseBuild)
	require.True(t, d.PreventUpdate)
}

func TestEvaluateExcludesAndJobs(t *testing.T) {
	p, err := New("", []entities.TagProtection{
		{ProjectID: "core", Tags: "** -nightly-*", Jobs: "release", PreventCreation: true},
	})
	require.NoError(t, err)

	require.True(t, p.Evaluate("v1.0", releaseBuild).PreventCreation)
	require.False(t, p.Evaluate("nightly-42", releaseBuild).PreventCreation)

	ci := releaseBuild
	ci.JobName = "ci"
	require.False(t, p.Evaluate("v1.0", ci).PreventCreation)
}

func TestEvaluateDeterministic(t *testing.T) {
	p, err := New("", []entities.TagProtection{
		{ProjectID: "core", Position: 1, Tags: "v*", PreventUpdate: true},
		{ProjectID: "core", Position: 2, Tags: "v1.*", PreventCreation: true},
	})
	require.NoError(t, err)

	first := p.Evaluate("v1.0", releaseBuild)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, p.Evaluate("v1.0", releaseBuild))
	}
}

func TestNewRejectsInvalidRules(t *testing.T) {
	_, err := New("", []entities.TagProtection{{ProjectID: "core", Tags: ""}})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = New("", []entities.TagProtection{{ProjectID: "core", Tags: "v[1"}})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = New("first_match", nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}
