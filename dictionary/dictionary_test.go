package dictionary

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const terms = "chest pain\n  Knee \n\nＰＡＩＮ\npt\n"

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(terms))
	require.NoError(t, err)

	assert.True(t, s.Contains("chest pain"))
	assert.True(t, s.Contains("Knee"))
	// NFKC folds full width letters
	assert.True(t, s.Contains("PAIN"))
	assert.False(t, s.Contains(""))
	assert.Len(t, s, 4)
}

func TestReadOptions(t *testing.T) {
	s, err := Read(strings.NewReader(terms),
		WithIgnoreCase(),
		WithStopwords(NewSet("pt")),
		WithMinLength(3))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"chest pain", "knee", "pain"}, s.Terms())
}

func TestLoadCompressed(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "pain.txt")
	require.NoError(t, os.WriteFile(plain, []byte(terms), 0o644))

	gzPath := filepath.Join(dir, "pain.txt.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(terms))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	xzPath := filepath.Join(dir, "pain.txt.xz")
	f, err = os.Create(xzPath)
	require.NoError(t, err)
	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = xw.Write([]byte(terms))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())

	want, err := Load(plain)
	require.NoError(t, err)

	for _, p := range []string{gzPath, xzPath} {
		got, err := Load(p)
		require.NoError(t, err, p)
		assert.Equal(t, want, got, p)
	}

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
