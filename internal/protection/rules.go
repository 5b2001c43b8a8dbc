package protection

import (
	"fmt"
	"os"
	"strings"

	"review-consensus-guard/internal/entities"

	"gopkg.in/yaml.v3"
)

// RuleSet is a tag protection file as read by pipeline steps that run
// without the service database.
type RuleSet struct {
	Combine entities.CombineStrategy `yaml:"combine"`
	Rules   []RuleEntry              `yaml:"rules"`
}

// RuleEntry is one rule of a RuleSet.
type RuleEntry struct {
	Project         string `yaml:"project"`
	Tags            string `yaml:"tags"`
	Branches        string `yaml:"branches"`
	Jobs            string `yaml:"jobs"`
	PreventCreation bool   `yaml:"prevent_creation"`
	PreventUpdate   bool   `yaml:"prevent_update"`
	PreventDeletion bool   `yaml:"prevent_deletion"`
}

// ParseRules decodes a YAML rule set. Rule positions follow file order.
func ParseRules(data []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("%w: decode protection rules: %v", entities.ErrInvalidArgument, err)
	}
	for i := range rs.Rules {
		rs.Rules[i].Project = strings.TrimSpace(rs.Rules[i].Project)
		if rs.Rules[i].Project == "" {
			return RuleSet{}, fmt.Errorf("%w: rule %d has no project", entities.ErrInvalidArgument, i)
		}
	}
	return rs, nil
}

// LoadRulesFile reads and decodes the rule set at path.
func LoadRulesFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read protection rules: %w", err)
	}
	return ParseRules(data)
}

// TagProtections returns the rules as entities, positioned by file order.
func (rs RuleSet) TagProtections() []entities.TagProtection {
	out := make([]entities.TagProtection, 0, len(rs.Rules))
	for i, r := range rs.Rules {
		out = append(out, entities.TagProtection{
			ProjectID:       r.Project,
			Position:        i,
			Tags:            r.Tags,
			Branches:        r.Branches,
			Jobs:            r.Jobs,
			PreventCreation: r.PreventCreation,
			PreventUpdate:   r.PreventUpdate,
			PreventDeletion: r.PreventDeletion,
		})
	}
	return out
}

// Policy builds the policy for the set. fallback is used when the file
// names no combine strategy.
func (rs RuleSet) Policy(fallback entities.CombineStrategy) (*Policy, error) {
	strategy := rs.Combine
	if strategy == "" {
		strategy = fallback
	}
	return New(strategy, rs.TagProtections())
}
