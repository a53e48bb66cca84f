package fsworkspace

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/sequana/pacbioqc/internal/domain"
	"github.com/sequana/pacbioqc/internal/pipeline"
)

func TestInitializer_Init_CopiesPipelineFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pacbio_qc")

	if err := NewInitializer().Init(domain.WorkspaceSpec{Root: root}); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	for _, name := range []string{
		pipeline.RulesFile,
		pipeline.ConfigFile,
		pipeline.SchemaFile,
		pipeline.MultiQCConfigFile,
	} {
		assertFileExists(t, filepath.Join(root, name))
	}

	info, err := os.Stat(filepath.Join(root, pipeline.StateDir, "logs"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log directory, stat err=%v", err)
	}
}

func TestInitializer_Init_ExistingDirRequiresForce(t *testing.T) {
	root := t.TempDir()
	rules := filepath.Join(root, "pacbio_qc.rules")
	if err := os.WriteFile(rules, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing rules: %v", err)
	}
	keep := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(keep, []byte("mine\n"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	files := fstest.MapFS{
		"pacbio_qc.rules": {Data: []byte("rule pipeline:\n")},
		"config.yaml":     {Data: []byte("input_directory: \"\"\n")},
	}
	i := NewInitializer(WithFiles(files))

	err := i.Init(domain.WorkspaceSpec{Root: root})
	if !domain.IsKind(err, domain.KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists, got %v", err)
	}

	b, _ := os.ReadFile(rules)
	if string(b) != "custom\n" {
		t.Fatalf("expected rules untouched without force, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: root, Force: true}); err != nil {
		t.Fatalf("Init (force) error: %v", err)
	}

	b, _ = os.ReadFile(rules)
	if string(b) != "rule pipeline:\n" {
		t.Fatalf("expected rules overwritten with force, got %q", string(b))
	}
	b, _ = os.ReadFile(keep)
	if string(b) != "mine\n" {
		t.Fatalf("expected unrelated files preserved, got %q", string(b))
	}
}

func TestInitializer_Init_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(root, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := NewInitializer().Init(domain.WorkspaceSpec{Root: root, Force: true})
	if !domain.IsKind(err, domain.KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists for file root, got %v", err)
	}
}

func TestChecker_Exists(t *testing.T) {
	tmp := t.TempDir()
	if err := (Checker{}).Exists(tmp); err != nil {
		t.Fatalf("expected no error for existing dir, got %v", err)
	}

	err := (Checker{}).Exists(filepath.Join(tmp, "missing"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
