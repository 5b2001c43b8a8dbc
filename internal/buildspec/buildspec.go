// Package buildspec decodes build definitions and the post-build actions
// their jobs declare.
package buildspec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"review-consensus-guard/internal/action"
	"review-consensus-guard/internal/entities"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only build spec format understood.
const CurrentVersion = 1

// Spec is a parsed build definition.
type Spec struct {
	Version int   `yaml:"version"`
	Jobs    []Job `yaml:"jobs"`
}

// Job is a named unit of a build with the actions run after it succeeds.
type Job struct {
	Name             string `yaml:"name"`
	PostBuildActions []Step `yaml:"post_build_actions"`
}

// Step is one post-build action. The concrete kind is resolved while decoding.
type Step struct {
	action.Action
}

type stepHeader struct {
	Type string `yaml:"type"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var header stepHeader
	if err := node.Decode(&header); err != nil {
		return err
	}
	kind := action.Kind(strings.TrimSpace(header.Type))

	switch kind {
	case action.KindCreateTag:
		var body struct {
			Type             string `yaml:"type"`
			action.CreateTag `yaml:",inline"`
		}
		if err := node.Decode(&body); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		s.Action = body.CreateTag
	case "":
		return fmt.Errorf("line %d: action type is required", node.Line)
	default:
		return fmt.Errorf("line %d: unknown action type %q", node.Line, header.Type)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Step) MarshalYAML() (interface{}, error) {
	switch a := s.Action.(type) {
	case action.CreateTag:
		return struct {
			Type             action.Kind `yaml:"type"`
			action.CreateTag `yaml:",inline"`
		}{Type: a.Kind(), CreateTag: a}, nil
	case nil:
		return nil, fmt.Errorf("empty action")
	default:
		return nil, fmt.Errorf("unsupported action %T", a)
	}
}

// Parse decodes, normalizes and validates a build definition.
func Parse(data []byte) (Spec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Spec{}, fmt.Errorf("buildspec: payload is empty")
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("buildspec: decode: %w", err)
	}
	spec = spec.Normalized()
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Load reads a build definition from r.
func Load(r io.Reader) (Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Spec{}, fmt.Errorf("buildspec: read: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a build definition from path.
func LoadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("buildspec: read %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return Spec{}, fmt.Errorf("buildspec: %s: %w", path, err)
	}
	return spec, nil
}

// Normalized trims names and defaults the version.
func (s Spec) Normalized() Spec {
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	jobs := make([]Job, 0, len(s.Jobs))
	for _, job := range s.Jobs {
		job.Name = strings.TrimSpace(job.Name)
		steps := make([]Step, 0, len(job.PostBuildActions))
		for _, step := range job.PostBuildActions {
			if a, ok := step.Action.(action.CreateTag); ok {
				a.TagName = strings.TrimSpace(a.TagName)
				step.Action = a
			}
			steps = append(steps, step)
		}
		job.PostBuildActions = steps
		jobs = append(jobs, job)
	}
	s.Jobs = jobs
	return s
}

// Validate checks job names are unique and every action is well formed.
func (s Spec) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported build spec version %d", entities.ErrInvalidArgument, s.Version)
	}
	if len(s.Jobs) == 0 {
		return fmt.Errorf("%w: build spec declares no jobs", entities.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(s.Jobs))
	for i, job := range s.Jobs {
		if job.Name == "" {
			return fmt.Errorf("%w: job %d has no name", entities.ErrInvalidArgument, i)
		}
		if _, dup := seen[job.Name]; dup {
			return fmt.Errorf("%w: duplicate job %q", entities.ErrInvalidArgument, job.Name)
		}
		seen[job.Name] = struct{}{}
		for j, step := range job.PostBuildActions {
			if step.Action == nil {
				return fmt.Errorf("%w: job %q action %d is empty", entities.ErrInvalidArgument, job.Name, j)
			}
			if err := step.Validate(); err != nil {
				return fmt.Errorf("job %q action %d: %w", job.Name, j, err)
			}
		}
	}
	return nil
}

// Job returns the job named name.
func (s Spec) Job(name string) (Job, error) {
	for _, job := range s.Jobs {
		if job.Name == name {
			return job, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %s", entities.ErrJobNotFound, name)
}

// Actions returns the job's actions in declaration order.
func (j Job) Actions() []action.Action {
	out := make([]action.Action, 0, len(j.PostBuildActions))
	for _, step := range j.PostBuildActions {
		out = append(out, step.Action)
	}
	return out
}
