// Package protection evaluates tag protection rules for build-driven tag
// mutations.
package protection

import (
	"fmt"
	"sort"

	"review-consensus-guard/internal/entities"
)

type rule struct {
	entities.TagProtection
	tags     patternSet
	branches patternSet
	jobs     patternSet
}

func (r rule) applies(tagName string, build entities.Build) bool {
	if r.ProjectID != build.ProjectID {
		return false
	}
	if !r.tags.matches(tagName) {
		return false
	}
	if !r.branches.empty() && !r.branches.matches(build.Branch) {
		return false
	}
	if !r.jobs.empty() && !r.jobs.matches(build.JobName) {
		return false
	}
	return true
}

// Policy is an immutable set of tag protection rules. It is safe for
// concurrent use.
type Policy struct {
	strategy entities.CombineStrategy
	rules    []rule
}

// New validates rules and builds a policy combining matches with strategy.
// An empty strategy means CombineOr.
func New(strategy entities.CombineStrategy, rules []entities.TagProtection) (*Policy, error) {
	switch strategy {
	case "":
		strategy = entities.CombineOr
	case entities.CombineOr, entities.CombineLastMatch:
	default:
		return nil, fmt.Errorf("%w: unknown combine strategy %q", entities.ErrInvalidArgument, strategy)
	}

	parsed := make([]rule, 0, len(rules))
	for i, r := range rules {
		tags, err := parsePatterns(r.Tags)
		if err != nil {
			return nil, fmt.Errorf("rule %d tags: %w", i, err)
		}
		if tags.empty() {
			return nil, fmt.Errorf("%w: rule %d has no tag pattern", entities.ErrInvalidArgument, i)
		}
		branches, err := parsePatterns(r.Branches)
		if err != nil {
			return nil, fmt.Errorf("rule %d branches: %w", i, err)
		}
		jobs, err := parsePatterns(r.Jobs)
		if err != nil {
			return nil, fmt.Errorf("rule %d jobs: %w", i, err)
		}
		parsed = append(parsed, rule{TagProtection: r, tags: tags, branches: branches, jobs: jobs})
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Position < parsed[j].Position
	})

	return &Policy{strategy: strategy, rules: parsed}, nil
}

// Strategy returns the combine strategy in effect.
func (p *Policy) Strategy() entities.CombineStrategy {
	return p.strategy
}

// Evaluate returns which mutations of tagName are forbidden for build.
func (p *Policy) Evaluate(tagName string, build entities.Build) entities.ProtectionDecision {
	var d entities.ProtectionDecision
	for _, r := range p.rules {
		if !r.applies(tagName, build) {
			continue
		}
		d.MatchedRules = append(d.MatchedRules, r.Position)
		if p.strategy == entities.CombineLastMatch {
			d.PreventCreation = r.PreventCreation
			d.PreventUpdate = r.PreventUpdate
			d.PreventDeletion = r.PreventDeletion
			continue
		}
		d.PreventCreation = d.PreventCreation || r.PreventCreation
		d.PreventUpdate = d.PreventUpdate || r.PreventUpdate
		d.PreventDeletion = d.PreventDeletion || r.PreventDeletion
	}
	return d
}
