package genome

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `>chr1 test chromosome
ACGTACGTAC
gtagGTAG
>chr2
TTTTCCCC
`

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(fixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"chr1", "chr2"}, g.Chromosomes())
	assert.Equal(t, 18, g.Len("chr1"))
	assert.Equal(t, 0, g.Len("chrX"))

	s, err := g.Fetch("chr1", 10, 14)
	require.NoError(t, err)
	assert.Equal(t, "GTAG", s)

	s, err = g.Fetch("chr2", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "TT", s)
}

func TestFetch_Errors(t *testing.T) {
	g, err := Read(strings.NewReader(fixture))
	require.NoError(t, err)

	_, err = g.Fetch("chrX", 0, 2)
	assert.Error(t, err)
	_, err = g.Fetch("chr2", 6, 10)
	assert.Error(t, err)
	_, err = g.Fetch("chr2", -1, 1)
	assert.Error(t, err)
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CT", ReverseComplement("AG"))
	assert.Equal(t, "AC", ReverseComplement("GT"))
	assert.Equal(t, "GT", ReverseComplement("AC"))
	assert.Equal(t, "TTGCA", ReverseComplement("TGCAA"))
	assert.Equal(t, "", ReverseComplement(""))
}

func TestLoad_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(fixture))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	s, err := g.Fetch("chr1", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", s)
}
