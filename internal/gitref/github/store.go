// Package github implements the ref store against the GitHub REST API.
//
// GitHub offers create-if-absent for refs but no compare-and-delete, so
// DeleteTag re-reads the ref and compares the object id right before
// deleting. A concurrent update landing between the two calls is not
// detected.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v32/github"
	"go.uber.org/zap"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/entities"
)

// Store mutates tags of cfg.Owner/cfg.Repo.
type Store struct {
	log    *zap.SugaredLogger
	client *gh.Client
	owner  string
	repo   string
	now    func() time.Time
}

// New creates a GitHub ref store.
func New(log *zap.SugaredLogger, cfg config.GitHubConfig) (*Store, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: github owner and repo are required", entities.ErrInvalidArgument)
	}

	client := gh.NewClient(newHTTPClient(cfg))
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Store{
		log:    log.Named("gitref.github"),
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		now:    time.Now,
	}, nil
}

// GetTagRef reads refs/tags/<name>.
func (s *Store) GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error) {
	ref, _, err := s.client.Git.GetRef(ctx, s.owner, s.repo, entities.TagRefName(name))
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag ref %s: %w", name, err)
	}
	return &entities.RefHandle{Name: name, ObjectID: ref.GetObject().GetSHA()}, nil
}

// CreateTag creates an annotated tag object and then the ref pointing at it.
// GitHub refuses to create an existing ref.
func (s *Store) CreateTag(ctx context.Context, name, commitHash string, tagger entities.PersonIdent, message string) (entities.RefHandle, error) {
	now := s.now()
	tag, _, err := s.client.Git.CreateTag(ctx, s.owner, s.repo, &gh.Tag{
		Tag:     gh.String(name),
		Message: gh.String(message),
		Object:  &gh.GitObject{Type: gh.String("commit"), SHA: gh.String(commitHash)},
		Tagger: &gh.CommitAuthor{
			Name:  gh.String(tagger.Name),
			Email: gh.String(tagger.Email),
			Date:  &now,
		},
	})
	if err != nil {
		if statusOf(err) == http.StatusUnprocessableEntity {
			return entities.RefHandle{}, fmt.Errorf("%w: create tag object %s: %v", entities.ErrInvalidArgument, name, err)
		}
		return entities.RefHandle{}, fmt.Errorf("create tag object %s: %w", name, err)
	}

	_, _, err = s.client.Git.CreateRef(ctx, s.owner, s.repo, &gh.Reference{
		Ref:    gh.String(entities.TagRefName(name)),
		Object: &gh.GitObject{SHA: tag.SHA},
	})
	if err != nil {
		if statusOf(err) != http.StatusUnprocessableEntity {
			return entities.RefHandle{}, fmt.Errorf("create tag ref %s: %w", name, err)
		}
		// A ref already pointing at our tag object was created by this call.
		current, getErr := s.GetTagRef(ctx, name)
		if getErr != nil || current == nil || current.ObjectID != tag.GetSHA() {
			return entities.RefHandle{}, fmt.Errorf("create tag ref %s: %w", name, entities.ErrRefExists)
		}
	}

	s.log.Infow("tag created", "tag", name, "commit", commitHash, "object", tag.GetSHA())
	return entities.RefHandle{Name: name, ObjectID: tag.GetSHA()}, nil
}

// DeleteTag deletes the ref after checking it still points at ref.ObjectID.
func (s *Store) DeleteTag(ctx context.Context, ref entities.RefHandle) error {
	current, err := s.GetTagRef(ctx, ref.Name)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("delete tag %s: %w", ref.Name, entities.ErrRefNotFound)
	}
	if current.ObjectID != ref.ObjectID {
		return fmt.Errorf("delete tag %s: %w", ref.Name, entities.ErrRefChanged)
	}

	if _, err := s.client.Git.DeleteRef(ctx, s.owner, s.repo, entities.TagRefName(ref.Name)); err != nil {
		switch statusOf(err) {
		case http.StatusNotFound, http.StatusUnprocessableEntity:
			return fmt.Errorf("delete tag %s: %w", ref.Name, entities.ErrRefNotFound)
		}
		return fmt.Errorf("delete tag %s: %w", ref.Name, err)
	}

	s.log.Infow("tag deleted", "tag", ref.Name, "object", ref.ObjectID)
	return nil
}

func statusOf(err error) int {
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}
