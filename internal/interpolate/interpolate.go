// Package interpolate resolves @variable@ placeholders in build action
// settings. A backslash before "@" or "\" makes that character literal.
package interpolate

import (
	"fmt"
	"strconv"
	"strings"

	"review-consensus-guard/internal/entities"
)

// Resolver returns the value of a variable.
type Resolver func(name string) (string, error)

// Error describes a malformed template or an unresolvable variable.
type Error struct {
	Template string
	Offset   int
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("interpolate %q at %d: %s", e.Template, e.Offset, e.Reason)
}

// Is matches entities.ErrInterpolation.
func (e *Error) Is(target error) bool {
	return target == entities.ErrInterpolation
}

// Interpolate expands every @name@ in template using resolve.
func Interpolate(template string, resolve Resolver) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '\\':
			if i+1 < len(template) && (template[i+1] == '@' || template[i+1] == '\\') {
				i++
				b.WriteByte(template[i])
				continue
			}
			b.WriteByte(c)
		case '@':
			end := strings.IndexByte(template[i+1:], '@')
			if end < 0 {
				return "", &Error{Template: template, Offset: i, Reason: "unterminated variable"}
			}
			name := template[i+1 : i+1+end]
			if name == "" {
				return "", &Error{Template: template, Offset: i, Reason: "empty variable name"}
			}
			val, err := resolve(name)
			if err != nil {
				return "", &Error{Template: template, Offset: i, Reason: err.Error()}
			}
			b.WriteString(val)
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

const paramPrefix = "params:"

// ForBuild resolves the variables a build exposes to its actions.
func ForBuild(build entities.Build) Resolver {
	return func(name string) (string, error) {
		switch name {
		case "project":
			return build.ProjectID, nil
		case "build_number":
			return strconv.FormatInt(build.Number, 10), nil
		case "job_name":
			return build.JobName, nil
		case "branch":
			return build.Branch, nil
		case "commit_hash":
			return build.CommitHash, nil
		case "pull_request":
			return build.PullRequestID, nil
		}
		if strings.HasPrefix(name, paramPrefix) {
			if v, ok := build.Params[strings.TrimPrefix(name, paramPrefix)]; ok {
				return v, nil
			}
			return "", fmt.Errorf("undefined build param %q", strings.TrimPrefix(name, paramPrefix))
		}
		return "", fmt.Errorf("unknown variable %q", name)
	}
}
