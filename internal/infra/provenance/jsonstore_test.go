package provenance

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sequana/pacbioqc/internal/domain"
)

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	created := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)

	store := NewJSONStore(tmp, WithIDs(func() string { return "id-1" }))

	id, err := store.SaveRun(domain.RunRecord{
		Pipeline:         "pacbio_qc",
		Version:          "1.0.0",
		Command:          []string{"sequana_pacbio_qc", "--input-directory", "/data"},
		WorkingDirectory: tmp,
		RunMode:          domain.RunModeLocal,
		CreatedAt:        created,
	})
	require.NoError(t, err)
	require.Equal(t, "id-1", id)

	wantFile := filepath.Join(tmp, ".sequana", "runs", "20260203T101112Z_pacbio-qc.json")
	b, err := os.ReadFile(wantFile)
	require.NoError(t, err)

	var decoded domain.RunRecord
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "id-1", decoded.ID)
	require.Equal(t, "pacbio_qc", decoded.Pipeline)
	require.Equal(t, []string{"sequana_pacbio_qc", "--input-directory", "/data"}, decoded.Command)
	require.True(t, decoded.CreatedAt.Equal(created))

	_, err = os.Stat(filepath.Join(tmp, ".sequana", "history.jsonl"))
	require.True(t, os.IsNotExist(err), "history written without WithIndex")
}

func TestSaveRun_GeneratesIDAndTime(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))

	store := NewJSONStore(tmp, WithNow(func() time.Time { return now }))
	id, err := store.SaveRun(domain.RunRecord{Pipeline: "pacbio_qc"})
	require.NoError(t, err)
	require.Len(t, id, 36)

	_, err = os.Stat(filepath.Join(tmp, ".sequana", "runs", "20251231T230000Z_pacbio-qc.json"))
	require.NoError(t, err)
}

func TestSaveRun_AppendsHistory(t *testing.T) {
	tmp := t.TempDir()
	n := 0
	store := NewJSONStore(tmp,
		WithIndex(true),
		WithIDs(func() string {
			n++
			return []string{"a", "b"}[n-1]
		}),
	)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	_, err := store.SaveRun(domain.RunRecord{Pipeline: "pacbio_qc", CreatedAt: base})
	require.NoError(t, err)
	_, err = store.SaveRun(domain.RunRecord{Pipeline: "pacbio_qc", CreatedAt: base.Add(time.Minute), FromProject: "/old"})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(tmp, ".sequana", "history.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)
	require.Equal(t, "a", lines[0]["id"])
	require.Equal(t, "runs/20260501T080000Z_pacbio-qc.json", lines[0]["file"])
	require.Equal(t, "/old", lines[1]["from_project"])
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"pacbio_qc":    "pacbio-qc",
		"  PacBio QC ": "pacbio-qc",
		"a__b":         "a-b",
		"":             "",
		"___":          "",
	}
	for in, want := range cases {
		require.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}
