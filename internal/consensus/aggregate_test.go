package consensus

import (
	"testing"

	"review-consensus-guard/internal/entities"

	"github.com/stretchr/testify/require"
)

func TestAggregatePartitionsReviewers(t *testing.T) {
	pr := pullRequest(3,
		vote("a", 1, entities.VoteApprove),
		vote("b", 2, entities.VoteReject),
		vote("c", 3, entities.VoteAbstain),
		vote("d", 1, entities.VoteReject),
		vote("d", 3, entities.VoteApprove),
	)
	tr := New(pr)
	reviewers := []string{"author", "a", "b", "c", "d", "e"}

	for from := 1; from <= 3; from++ {
		res := tr.Aggregate(reviewers, from)

		union := append(append(append([]string{}, res.Approved...), res.Pending...), res.Rejected...)
		require.ElementsMatch(t, reviewers, union, "from %d", from)
		require.Contains(t, res.Approved, "author", "from %d", from)
		require.Equal(t, from, res.FromRevision)
	}

	res := tr.Aggregate(reviewers, 1)
	require.Equal(t, []string{"author", "a"}, res.Approved)
	require.Equal(t, []string{"c", "e"}, res.Pending)
	require.Equal(t, []string{"b", "d"}, res.Rejected)
	require.False(t, res.Satisfied())

	res = tr.Aggregate(reviewers, 3)
	require.Equal(t, []string{"author", "d"}, res.Approved)
	require.Equal(t, []string{"a", "b", "c", "e"}, res.Pending)
	require.Empty(t, res.Rejected)
}

func TestAggregateDropsDuplicates(t *testing.T) {
	tr := New(pullRequest(1, vote("a", 1, entities.VoteApprove)))

	res := tr.Aggregate([]string{"a", "a", "b"}, 1)
	require.Equal(t, []string{"a"}, res.Approved)
	require.Equal(t, []string{"b"}, res.Pending)
}

func TestAggregateSatisfied(t *testing.T) {
	tr := New(pullRequest(2, vote("a", 2, entities.VoteApprove)))

	require.True(t, tr.Aggregate([]string{"author", "a"}, 1).Satisfied())
	require.True(t, tr.Aggregate(nil, 1).Satisfied())
}
