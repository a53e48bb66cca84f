package deps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeLookPath(found map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
}

func TestProbe(t *testing.T) {
	p := NewProber(WithLookPath(fakeLookPath(map[string]string{
		"snakemake": "/usr/bin/snakemake",
		"multiqc":   "/opt/bin/multiqc",
	})))

	got := p.Probe()
	require.Equal(t, []Dependency{
		{Name: "snakemake", Path: "/usr/bin/snakemake", Found: true},
		{Name: "samtools"},
		{Name: "sequana_taxonomy"},
		{Name: "multiqc", Path: "/opt/bin/multiqc", Found: true},
	}, got)
}

func TestHas(t *testing.T) {
	p := NewProber(WithLookPath(fakeLookPath(map[string]string{"sbatch": "/usr/bin/sbatch"})))
	require.True(t, p.Has("sbatch"))
	require.False(t, p.Has("srun"))
}
