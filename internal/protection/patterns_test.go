package protection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternSetMatches(t *testing.T) {
	ps, err := parsePatterns("v* release/** -v*-rc*")
	require.NoError(t, err)

	require.True(t, ps.matches("v1.0"))
	require.True(t, ps.matches("release/2024/01"))
	require.False(t, ps.matches("v1.0-rc1"))
	require.False(t, ps.matches("nightly"))
}

func TestPatternSetExcludesOnly(t *testing.T) {
	ps, err := parsePatterns("-hotfix/*")
	require.NoError(t, err)

	require.True(t, ps.matches("main"))
	require.False(t, ps.matches("hotfix/1"))
}

func TestParsePatternsRejectsBadPattern(t *testing.T) {
	_, err := parsePatterns("v[1")
	require.Error(t, err)

	_, err = parsePatterns("-")
	require.Error(t, err)
}
