package cli

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sequana/pacbioqc/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error from the use case into one line for the
// terminal. The full error goes to the log file.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return err.Error()
	}

	switch oe.Kind {
	case domain.KindNotFound:
		if oe.Path == "" {
			return "Not found: " + cause(oe)
		}
		if strings.HasPrefix(oe.Op, "projectfinder") {
			return "No project config found from " + oe.Path
		}
		return oe.Path + " does not exist"

	case domain.KindInvalidInput:
		return cause(oe)

	case domain.KindAlreadyExists:
		return cause(oe) + ": " + oe.Path

	case domain.KindInvalidConfig:
		if oe.Path == "" {
			return cause(oe)
		}
		base := filepath.Base(oe.Path)
		if line := extractLine(err.Error()); line != "" && looksLikeYAMLProblem(err.Error()) {
			return "Invalid YAML at " + base + " line " + line
		}
		return "Invalid config " + base + ": " + cause(oe)

	default:
		return err.Error()
	}
}

// cause strips the sentinel suffix added for errors.Is.
func cause(oe *domain.OpError) string {
	if oe.Err == nil {
		return string(oe.Kind)
	}
	msg := oe.Err.Error()
	for _, s := range []error{domain.ErrAlreadyExists, domain.ErrNotFound, domain.ErrInvalidConfig, domain.ErrInvalidInput} {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
