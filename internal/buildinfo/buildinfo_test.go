package buildinfo

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "1.2.0", "abc123", "2026-10-15"
	want := "sequana_pacbio_qc 1.2.0 (commit=abc123, date=2026-10-15)"
	if got := String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
