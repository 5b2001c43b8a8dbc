package protection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"review-consensus-guard/internal/entities"

	"github.com/stretchr/testify/require"
)

const rulesYAML = `
combine: last_match
rules:
  - project: core
    tags: "v*"
    prevent_update: true
  - project: core
    tags: "v*"
    branches: "release/*"
    prevent_update: false
  - project: web
    tags: "**"
    prevent_creation: true
`

func TestParseRules(t *testing.T) {
	rs, err := ParseRules([]byte(rulesYAML))
	require.NoError(t, err)
	require.Equal(t, entities.CombineLastMatch, rs.Combine)

	rules := rs.TagProtections()
	require.Len(t, rules, 3)
	require.Equal(t, 0, rules[0].Position)
	require.Equal(t, 2, rules[2].Position)
	require.Equal(t, "web", rules[2].ProjectID)
	require.True(t, rules[2].PreventCreation)
}

func TestRuleSetPolicy(t *testing.T) {
	rs, err := ParseRules([]byte(rulesYAML))
	require.NoError(t, err)

	policy, err := rs.Policy(entities.CombineOr)
	require.NoError(t, err)
	require.Equal(t, entities.CombineLastMatch, policy.Strategy())

	onMain := policy.Evaluate("v1.0", entities.Build{ProjectID: "core", Branch: "main"})
	require.True(t, onMain.PreventUpdate)

	onRelease := policy.Evaluate("v1.0", entities.Build{ProjectID: "core", Branch: "release/1"})
	require.False(t, onRelease.PreventUpdate)
	require.Equal(t, []int{0, 1}, onRelease.MatchedRules)
}

func TestRuleSetPolicyFallback(t *testing.T) {
	rs, err := ParseRules([]byte("rules:\n  - project: core\n    tags: v*\n"))
	require.NoError(t, err)

	policy, err := rs.Policy(entities.CombineOr)
	require.NoError(t, err)
	require.Equal(t, entities.CombineOr, policy.Strategy())
}

func TestParseRulesErrors(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - tags: v*\n"))
	require.True(t, errors.Is(err, entities.ErrInvalidArgument))

	_, err = ParseRules([]byte("rules: {"))
	require.True(t, errors.Is(err, entities.ErrInvalidArgument))
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0o600))

	rs, err := LoadRulesFile(path)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 3)

	_, err = LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
