package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

const notesTSV = "DOC_NAME\tTEXT\n" +
	"n1\tHPI: severe knee pain.\\nPatient denies back pain.\n" +
	"n2\t   \n"

const configYML = `
log:
  level: error
dictionaries:
  - name: anatomy
    terms: [knee, back]
  - name: pain
    terms: [pain]
relations:
  - type: anatomy_pain
    args: [anatomy, pain]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err := newApp(UI{Out: &out, Err: &errOut}).Run(append([]string{"rwe"}, args...))
	return out.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rwe version dev (commit: none)\n", out)
}

func TestParseLabel(t *testing.T) {
	dir := t.TempDir()
	notes := write(t, dir, "notes.tsv", notesTSV)
	cfg := write(t, dir, "rwe.yml", configYML)
	docs := filepath.Join(dir, "docs.jsonl.gz")
	outDir := filepath.Join(dir, "labels")
	metrics := filepath.Join(dir, "rwe.prom")

	out, err := run(t, "parse", "--in", notes, "--out", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "parsed 1 documents")
	assert.Contains(t, out, "(1 notes skipped)")

	out, err = run(t, "label", "--docs", docs, "--config", cfg, "--out", outDir, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "LF_compound_words")
	assert.Contains(t, out, "candidates 2")

	data, err := os.ReadFile(filepath.Join(outDir, manifestName))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, "anatomy_pain", m.Relation)
	assert.Equal(t, "LF_pro_re_nata", m.LFs[0])
	require.Len(t, m.Files, 1)
	assert.Equal(t, "n1", m.Files[0].Doc)
	assert.Equal(t, 2, m.Files[0].Candidates)

	mtx, err := os.ReadFile(filepath.Join(outDir, m.Files[0].Path))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(mtx), "%%MatrixMarket matrix coordinate integer general\n"))

	sum := blake3.Sum256(mtx)
	assert.Equal(t, hex.EncodeToString(sum[:]), m.Files[0].Blake3)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "rwe_label_candidates_total 2")

	out, err = run(t, "tag", "--docs", docs, "--config", cfg, "--json")
	require.NoError(t, err)

	var cs []struct {
		Doc  string `json:"doc"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cs))
	require.Len(t, cs, 2)
	assert.Equal(t, "n1", cs[0].Doc)
	assert.Equal(t, "anatomy_pain", cs[0].Type)

	out, err = run(t, "doc", "--docs", docs, "--no-color", "--no-prefix", "n1")
	require.NoError(t, err)
	assert.Equal(t, "HPI: severe knee pain.\nPatient denies back pain.\n", out)

	out, err = run(t, "doc", "--docs", docs)
	require.NoError(t, err)
	assert.Equal(t, "📖 n1\n", out)
}

func TestLsLabels(t *testing.T) {
	out, err := run(t, "--log-level", "error", "ls-labels")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "  0 LF_pro_re_nata\n"))
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "doc", "--docs", filepath.Join(dir, "missing.jsonl"), "n1")
	assert.Error(t, err)

	_, err = run(t, "doc", "--docs", dir, "--format", "xml", "n1")
	assert.ErrorContains(t, err, "unknown format")

	cfg := write(t, dir, "rwe.yml", configYML)
	_, err = run(t, "ls-labels", "--config", cfg, "--log-style", "fancy")
	assert.ErrorContains(t, err, "unknown log style")
}
