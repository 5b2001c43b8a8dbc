package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/entities"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	seedUsers(ctx, t, repo, "alice", "bob", "carol")

	pr, err := repo.CreatePR(ctx,
		entities.PullRequest{ID: "pr1", Title: "Init", SubmitterID: "alice"},
		entities.Revision{CommitHash: "aaa"},
	)
	require.NoError(t, err)
	require.Equal(t, entities.StatusOpen, pr.Status)
	require.Len(t, pr.Revisions, 1)
	require.Equal(t, 1, pr.Revisions[0].Seq)
	require.Equal(t, "alice", pr.Revisions[0].AuthorID)

	_, err = repo.CreatePR(ctx, entities.PullRequest{ID: "pr1", Title: "Dup", SubmitterID: "alice"}, entities.Revision{CommitHash: "aaa"})
	require.ErrorIs(t, err, entities.ErrPRExists)

	_, err = repo.CreatePR(ctx, entities.PullRequest{ID: "pr2", Title: "Ghost", SubmitterID: "nobody"}, entities.Revision{CommitHash: "aaa"})
	require.ErrorIs(t, err, entities.ErrUserNotFound)

	inv, err := repo.AddReviewer(ctx, "pr1", "bob")
	require.NoError(t, err)
	require.True(t, inv.Pending())
	again, err := repo.AddReviewer(ctx, "pr1", "bob")
	require.NoError(t, err)
	require.Equal(t, inv.ID, again.ID)
	_, err = repo.AddReviewer(ctx, "pr1", "carol")
	require.NoError(t, err)

	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 1, ReviewerID: "bob", Result: entities.VoteReject})
	require.NoError(t, err)
	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 1, ReviewerID: "bob", Result: entities.VoteApprove})
	require.ErrorIs(t, err, entities.ErrVoteExists)
	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 9, ReviewerID: "bob", Result: entities.VoteApprove})
	require.ErrorIs(t, err, entities.ErrRevisionNotFound)

	rev, err := repo.AddRevision(ctx, entities.Revision{PullRequestID: "pr1", AuthorID: "alice", CommitHash: "bbb"})
	require.NoError(t, err)
	require.Equal(t, 2, rev.Seq)

	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 2, ReviewerID: "bob", Result: entities.VoteApprove})
	require.NoError(t, err)

	loaded, err := repo.GetPR(ctx, "pr1")
	require.NoError(t, err)
	require.Len(t, loaded.Revisions, 2)
	require.Len(t, loaded.Votes, 2)
	require.Equal(t, []string{"bob", "carol"}, loaded.Reviewers)

	pending, err := repo.ListInvitations(ctx, "bob", true)
	require.NoError(t, err)
	require.Empty(t, pending)
	pending, err = repo.ListInvitations(ctx, "carol", true)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	closed, err := repo.ClosePR(ctx, "pr1", entities.StatusMerged)
	require.NoError(t, err)
	require.Equal(t, entities.StatusMerged, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	closedAgain, err := repo.ClosePR(ctx, "pr1", entities.StatusMerged)
	require.NoError(t, err)
	require.Equal(t, closed.ClosedAt, closedAgain.ClosedAt)

	_, err = repo.ClosePR(ctx, "pr1", entities.StatusDiscarded)
	require.ErrorIs(t, err, entities.ErrPRClosed)
	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 2, ReviewerID: "carol", Result: entities.VoteApprove})
	require.ErrorIs(t, err, entities.ErrPRClosed)

	pending, err = repo.ListInvitations(ctx, "carol", true)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestTagProtectionsIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	stored, err := repo.ReplaceTagProtections(ctx, "core", []entities.TagProtection{
		{Tags: "v*", PreventUpdate: true},
		{Tags: "** -nightly*", Branches: "main", PreventCreation: true},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, 0, stored[0].Position)
	require.Equal(t, "core", stored[1].ProjectID)
	require.Equal(t, "main", stored[1].Branches)

	stored, err = repo.ReplaceTagProtections(ctx, "core", []entities.TagProtection{{Tags: "release-*", PreventDeletion: true}})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	listed, err := repo.ListTagProtections(ctx, "core")
	require.NoError(t, err)
	require.Equal(t, stored, listed)

	other, err := repo.ListTagProtections(ctx, "other")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestRepositoryStatsIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	seedUsers(ctx, t, repo, "alice", "bob", "carol")

	for _, id := range []string{"pr1", "pr2"} {
		_, err := repo.CreatePR(ctx, entities.PullRequest{ID: id, Title: id, SubmitterID: "alice"}, entities.Revision{CommitHash: "c-" + id})
		require.NoError(t, err)
		_, err = repo.AddReviewer(ctx, id, "bob")
		require.NoError(t, err)
		_, err = repo.AddReviewer(ctx, id, "carol")
		require.NoError(t, err)
	}
	_, err := repo.CastVote(ctx, entities.Vote{PullRequestID: "pr1", RevisionSeq: 1, ReviewerID: "bob", Result: entities.VoteApprove})
	require.NoError(t, err)
	_, err = repo.CastVote(ctx, entities.Vote{PullRequestID: "pr2", RevisionSeq: 1, ReviewerID: "bob", Result: entities.VoteReject})
	require.NoError(t, err)
	_, err = repo.ClosePR(ctx, "pr2", entities.StatusDiscarded)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, []entities.ReviewerVoteStat{{UserID: "bob", Approved: 1, Rejected: 1}}, stats.ByReviewer)

	statusCounts := map[entities.PullRequestStatus]int64{}
	for _, s := range stats.ByStatus {
		statusCounts[s.Status] = s.PRCount
	}
	require.Equal(t, int64(1), statusCounts[entities.StatusOpen])
	require.Equal(t, int64(1), statusCounts[entities.StatusDiscarded])

	carol, err := repo.ReviewerStats(ctx, "carol", 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), carol.PendingInvitations)
	require.Len(t, carol.RecentPRs, 2)

	_, err = repo.ReviewerStats(ctx, "nobody", 5)
	require.ErrorIs(t, err, entities.ErrUserNotFound)
}

func seedUsers(ctx context.Context, t *testing.T, repo *Postgres, ids ...string) {
	t.Helper()

	for _, id := range ids {
		_, err := repo.UpsertUser(ctx, entities.User{ID: id, Name: id, Email: id + "@example.com", IsActive: true})
		require.NoError(t, err)
	}
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=review_consensus_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "review_consensus_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=review_consensus_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
