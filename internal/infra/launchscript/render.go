package launchscript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sequana/pacbioqc/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
// Single braces, as used by snakemake ({threads}), pass through untouched.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
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
			return "", renderError(domain.KindInvalidConfig, errors.New("unclosed template expression"))
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", renderError(domain.KindInvalidConfig, errors.New("empty template expression"))
		}

		value, ok := vars[key]
		if !ok {
			return "", renderError(domain.KindNotFound, fmt.Errorf("missing variable %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

func renderError(kind domain.ErrorKind, err error) error {
	return &domain.OpError{
		Op:   "launchscript.render",
		Kind: kind,
		Err:  err,
	}
}
