package provenance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
	"github.com/sequana/pacbioqc/internal/ports"
)

const (
	runsDirName = "runs"
	indexName   = "history.jsonl"
)

// JSONStore keeps one JSON file per invocation under .sequana/runs and a
// JSONL history next to it.
type JSONStore struct {
	stateDir   string
	writeIndex bool
	now        func() time.Time
	newID      func() string
}

type Option func(*JSONStore)

// WithIndex enables the history file: .sequana/history.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDs replaces the UUID generator.
func WithIDs(newID func() string) Option {
	return func(s *JSONStore) { s.newID = newID }
}

// NewJSONStore stores records under <root>/.sequana.
func NewJSONStore(root string, opts ...Option) *JSONStore {
	s := &JSONStore{
		stateDir:   filepath.Join(root, pipeline.StateDir),
		writeIndex: false,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.RunRecorder = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(rec domain.RunRecord) (string, error) {
	dir := filepath.Join(s.stateDir, runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "provenance.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	slug := slugify(rec.Pipeline)
	if slug == "" {
		slug = "run"
	}

	filename := fmt.Sprintf("%s_%s.json", rec.CreatedAt.Format("20060102T150405Z"), slug)
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "provenance.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{
			Op:   "provenance.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "provenance.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(filepath.Join(runsDirName, filename), rec)
	}

	return rec.ID, nil
}

func (s *JSONStore) appendIndex(file string, rec domain.RunRecord) error {
	type idx struct {
		ID          string    `json:"id"`
		File        string    `json:"file"`
		Version     string    `json:"version"`
		FromProject string    `json:"from_project,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}
	line, err := json.Marshal(idx{
		ID:          rec.ID,
		File:        filepath.ToSlash(file),
		Version:     rec.Version,
		FromProject: rec.FromProject,
		CreatedAt:   rec.CreatedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.stateDir, indexName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			// any other char -> dash
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
