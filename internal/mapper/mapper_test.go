package mapper

import (
	"testing"

	"review-consensus-guard/internal/entities"
	oapi "review-consensus-guard/internal/oapi"

	"github.com/stretchr/testify/require"
)

func TestToOAPIPullNeverNil(t *testing.T) {
	pr := ToOAPIPull(entities.PullRequest{ID: "pr1", Status: entities.StatusOpen})
	require.NotNil(t, pr.Revisions)
	require.NotNil(t, pr.Votes)
	require.NotNil(t, pr.Reviewers)
	require.Equal(t, oapi.PullRequestStatusOPEN, pr.Status)
}

func TestToOAPIApprovalSatisfied(t *testing.T) {
	a := ToOAPIApproval(entities.Approval{PullRequestID: "pr1", FromRevision: 2, Approved: []string{"a"}, Pending: []string{}, Rejected: []string{}})
	require.True(t, a.Satisfied)

	a = ToOAPIApproval(entities.Approval{Approved: []string{"a"}, Pending: []string{"b"}})
	require.False(t, a.Satisfied)
}

func TestFromOAPITagProtectionsSetsProject(t *testing.T) {
	rules := FromOAPITagProtections("core", []oapi.TagProtection{{Tags: "v*", PreventUpdate: true}})
	require.Equal(t, []entities.TagProtection{{ProjectID: "core", Tags: "v*", PreventUpdate: true}}, rules)

	back := ToOAPITagProtectionList("core", rules)
	require.Equal(t, "core", back.ProjectId)
	require.True(t, back.Rules[0].PreventUpdate)
}

func TestToOAPIEffectiveVote(t *testing.T) {
	v := ToOAPIEffectiveVote(entities.EffectiveVote{PullRequestID: "pr1", ReviewerID: "x", FromRevision: 3, Result: entities.VoteApprove, Voted: true})
	require.Equal(t, 3, v.FromRevision)
	require.NotNil(t, v.Result)
	require.Equal(t, oapi.VoteResultAPPROVE, *v.Result)

	v = ToOAPIEffectiveVote(entities.EffectiveVote{PullRequestID: "pr1", ReviewerID: "x", FromRevision: 3})
	require.Nil(t, v.Result)
}
