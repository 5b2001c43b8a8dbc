package gitref

import (
	"fmt"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/gitref/gitcli"
	"review-consensus-guard/internal/gitref/github"

	"go.uber.org/zap"
)

var (
	_ RefStore = (*gitcli.Store)(nil)
	_ RefStore = (*github.Store)(nil)
)

// New constructs a ref store backend by name.
func New(name string, log *zap.SugaredLogger, cfg *config.Config) (RefStore, error) {
	switch name {
	case "git":
		return gitcli.New(log, cfg.Git), nil
	case "github":
		store, err := github.New(log, cfg.GitHub)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown ref store backend: %s", name)
	}
}
