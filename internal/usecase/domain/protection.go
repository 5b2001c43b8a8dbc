package domain

import (
	"context"
	"fmt"
	"strings"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/protection"
)

// SetTagProtections replaces the project's rules. Positions follow the
// order of rules.
func (u *Usecase) SetTagProtections(ctx context.Context, projectID string, rules []entities.TagProtection) ([]entities.TagProtection, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("%w: project_id is required", entities.ErrInvalidArgument)
	}

	normalized := make([]entities.TagProtection, 0, len(rules))
	for i, r := range rules {
		r.ProjectID = projectID
		r.Position = i
		normalized = append(normalized, r)
	}
	if _, err := protection.New(u.combine, normalized); err != nil {
		return nil, err
	}

	stored, err := u.repo.ReplaceTagProtections(ctx, projectID, normalized)
	if err != nil {
		return nil, err
	}
	u.log.Infow("tag protections set", "project_id", projectID, "rules", len(stored))
	return stored, nil
}

// TagProtections lists the project's rules in position order.
func (u *Usecase) TagProtections(ctx context.Context, projectID string) ([]entities.TagProtection, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if projectID == "" {
		return nil, fmt.Errorf("%w: project_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.ListTagProtections(ctx, projectID)
}

// EvaluateTagProtection reports which mutations of tagName build may not perform.
func (u *Usecase) EvaluateTagProtection(ctx context.Context, tagName string, build entities.Build) (entities.ProtectionDecision, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if tagName == "" || build.ProjectID == "" {
		return entities.ProtectionDecision{}, fmt.Errorf("%w: tag and project_id are required", entities.ErrInvalidArgument)
	}
	policy, err := u.policy(ctx, build.ProjectID)
	if err != nil {
		return entities.ProtectionDecision{}, err
	}
	return policy.Evaluate(tagName, build), nil
}

func (u *Usecase) policy(ctx context.Context, projectID string) (*protection.Policy, error) {
	rules, err := u.repo.ListTagProtections(ctx, projectID)
	if err != nil {
		return nil, err
	}
	policy, err := protection.New(u.combine, rules)
	if err != nil {
		return nil, fmt.Errorf("stored protections of %s: %w", projectID, err)
	}
	return policy, nil
}
