package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, verbose, missingMarker, inputPath, outputPath = "", false, "", "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPredict_Stdin(t *testing.T) {
	out, _, err := execute(t, "2 2\n5 X\n3 4\n1\n1 2 0 1\n")
	require.NoError(t, err)
	assert.Equal(t, "3.000\n", out)
}

func TestPredict_Files(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "dense.got")

	_, _, err := execute(t, "", "--input", filepath.Join("testdata", "fixtures", "02-dense.in"), "--output", outPath)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "fixtures", "02-dense.out"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestPredict_MissingMarkerFlag(t *testing.T) {
	out, _, err := execute(t, "2 2\n5 -\n3 4\n1\n1 2 0 1\n", "--missing-marker", "-")
	require.NoError(t, err)
	assert.Equal(t, "3.000\n", out)
}

func TestPredict_BadInput(t *testing.T) {
	_, _, err := execute(t, "2 2\n5 X\n")
	assert.Error(t, err)
}

func TestCheck_Fixtures(t *testing.T) {
	out, _, err := execute(t, "", "check", "--no-color", filepath.Join("testdata", "fixtures"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS: 01-two-by-two.in")
	assert.Contains(t, out, "Tests failed: 0")
}

func TestCheck_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.in"), []byte("1 1\n5\n1\n1 1 0 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.out"), []byte("2.000\n"), 0644))

	out, _, err := execute(t, "", "check", "--no-color", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "FAIL: a.in")
	assert.Contains(t, out, "Tests failed: 1")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cfpredict ")
	assert.Contains(t, out, "Go version:")
}
