// Package gitcli implements the ref store on a local repository through the
// git command line.
package gitcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/entities"

	"go.uber.org/zap"
)

// Store mutates tags of the repository at cfg.RepoDir.
type Store struct {
	log *zap.SugaredLogger
	cfg config.GitConfig
}

// New creates a git CLI ref store.
func New(log *zap.SugaredLogger, cfg config.GitConfig) *Store {
	if cfg.Binary == "" {
		cfg.Binary = "git"
	}
	return &Store{
		log: log.Named("gitref.git"),
		cfg: cfg,
	}
}

// GetTagRef resolves refs/tags/<name> without peeling annotated tags.
func (s *Store) GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error) {
	out, err := s.execute(ctx, nil, "rev-parse", "--verify", "--quiet", entities.TagRefName(name))
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 && strings.TrimSpace(out) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve tag %s: %w", name, err)
	}
	return &entities.RefHandle{Name: name, ObjectID: strings.TrimSpace(out)}, nil
}

// CreateTag creates an annotated tag. git refuses to overwrite an existing
// tag without -f, which makes this a create-if-absent.
func (s *Store) CreateTag(ctx context.Context, name, commitHash string, tagger entities.PersonIdent, message string) (entities.RefHandle, error) {
	if _, err := s.execute(ctx, nil, "check-ref-format", entities.TagRefName(name)); err != nil {
		return entities.RefHandle{}, fmt.Errorf("%w: invalid tag name %q", entities.ErrInvalidArgument, name)
	}

	if message == "" {
		message = name
	}
	env := []string{
		"GIT_COMMITTER_NAME=" + tagger.Name,
		"GIT_COMMITTER_EMAIL=" + tagger.Email,
	}
	if _, err := s.execute(ctx, env, "tag", "-a", "-m", message, name, commitHash); err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "already exists") {
			return entities.RefHandle{}, fmt.Errorf("create tag %s: %w", name, entities.ErrRefExists)
		}
		return entities.RefHandle{}, fmt.Errorf("create tag %s: %w", name, err)
	}

	ref, err := s.GetTagRef(ctx, name)
	if err != nil {
		return entities.RefHandle{}, err
	}
	if ref == nil {
		return entities.RefHandle{}, fmt.Errorf("create tag %s: %w", name, entities.ErrRefNotFound)
	}

	s.log.Infow("tag created", "tag", name, "commit", commitHash, "object", ref.ObjectID)
	return *ref, nil
}

// DeleteTag removes the tag only if it still points at ref.ObjectID.
func (s *Store) DeleteTag(ctx context.Context, ref entities.RefHandle) error {
	if _, err := s.execute(ctx, nil, "update-ref", "-d", entities.TagRefName(ref.Name), ref.ObjectID); err != nil {
		current, getErr := s.GetTagRef(ctx, ref.Name)
		switch {
		case getErr != nil:
			return fmt.Errorf("delete tag %s: %w", ref.Name, err)
		case current == nil:
			return fmt.Errorf("delete tag %s: %w", ref.Name, entities.ErrRefNotFound)
		case current.ObjectID != ref.ObjectID:
			return fmt.Errorf("delete tag %s: %w", ref.Name, entities.ErrRefChanged)
		default:
			return fmt.Errorf("delete tag %s: %w", ref.Name, err)
		}
	}

	s.log.Infow("tag deleted", "tag", ref.Name, "object", ref.ObjectID)
	return nil
}
