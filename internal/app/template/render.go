package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// RenderString replaces {{var}} placeholders with vars values.
// It is used for the small templates in blogctl.yaml (canonical URLs,
// commit messages). A missing variable or malformed placeholder is an error.
func RenderString(input string, vars domain.Vars) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	out.Grow(len(input) + 32)

	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  errors.New("unclosed template expression"),
			}
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  errors.New("empty template expression"),
			}
		}

		value, ok := vars[key]
		if !ok {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindMissingVar,
				Err:  fmt.Errorf("missing variable %q: %w", key, domain.ErrMissingVar),
			}
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}
