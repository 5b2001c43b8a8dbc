package protection

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"review-consensus-guard/internal/entities"
)

// patternSet is a parsed space separated pattern list. Patterns prefixed with
// "-" exclude; a name matches when it hits an include and no exclude.
type patternSet struct {
	includes []string
	excludes []string
}

func parsePatterns(raw string) (patternSet, error) {
	var ps patternSet
	for _, field := range strings.Fields(raw) {
		target := &ps.includes
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			target = &ps.excludes
		}
		if field == "" || !doublestar.ValidatePattern(field) {
			return patternSet{}, fmt.Errorf("%w: bad pattern %q", entities.ErrInvalidArgument, field)
		}
		*target = append(*target, field)
	}
	return ps, nil
}

func (ps patternSet) empty() bool {
	return len(ps.includes) == 0 && len(ps.excludes) == 0
}

func (ps patternSet) matches(name string) bool {
	for _, p := range ps.excludes {
		if match(p, name) {
			return false
		}
	}
	if len(ps.includes) == 0 {
		return true
	}
	for _, p := range ps.includes {
		if match(p, name) {
			return true
		}
	}
	return false
}

// match reports whether name matches pattern p. Patterns are validated by
// parsePatterns, so Match cannot fail with ErrBadPattern here.
func match(p, name string) bool {
	ok, _ := doublestar.Match(p, name)
	return ok
}
