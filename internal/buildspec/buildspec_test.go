package buildspec

import (
	"strings"
	"testing"

	"review-consensus-guard/internal/action"
	"review-consensus-guard/internal/entities"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const releaseSpec = `
version: 1
jobs:
  - name: release
    post_build_actions:
      - type: create_tag
        tag_name: " v@build_number@ "
        tag_message: built from @commit_hash@
      - type: create_tag
        tag_name: latest
  - name: check
`

func TestParseResolvesActionKinds(t *testing.T) {
	spec, err := Parse([]byte(releaseSpec))
	require.NoError(t, err)
	require.Len(t, spec.Jobs, 2)

	job, err := spec.Job("release")
	require.NoError(t, err)

	actions := job.Actions()
	require.Len(t, actions, 2)
	require.Equal(t, action.CreateTag{TagName: "v@build_number@", TagMessage: "built from @commit_hash@"}, actions[0])
	require.Equal(t, action.KindCreateTag, actions[1].Kind())

	check, err := spec.Job("check")
	require.NoError(t, err)
	require.Empty(t, check.Actions())
}

func TestParseRejectsUnknownActionType(t *testing.T) {
	_, err := Parse([]byte(`
jobs:
  - name: release
    post_build_actions:
      - type: delete_branch
        branch: main
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown action type "delete_branch"`)
}

func TestParseRejectsMissingActionType(t *testing.T) {
	_, err := Parse([]byte(`
jobs:
  - name: release
    post_build_actions:
      - tag_name: v1
`))
	require.ErrorContains(t, err, "action type is required")
}

func TestParseValidation(t *testing.T) {
	cases := map[string]string{
		"empty":          "  \n",
		"no jobs":        "version: 1\n",
		"bad version":    "version: 2\njobs:\n  - name: a\n",
		"unnamed job":    "jobs:\n  - post_build_actions: []\n",
		"duplicate jobs": "jobs:\n  - name: a\n  - name: a\n",
		"empty tag name": "jobs:\n  - name: a\n    post_build_actions:\n      - type: create_tag\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestJobNotFound(t *testing.T) {
	spec, err := Parse([]byte(releaseSpec))
	require.NoError(t, err)

	_, err = spec.Job("deploy")
	require.ErrorIs(t, err, entities.ErrJobNotFound)
}

func TestStepRoundTripKeepsType(t *testing.T) {
	spec, err := Load(strings.NewReader(releaseSpec))
	require.NoError(t, err)

	out, err := yaml.Marshal(spec)
	require.NoError(t, err)
	require.Contains(t, string(out), "type: create_tag")

	again, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, spec, again)
}
