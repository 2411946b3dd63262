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

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	registryPath = ""
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "cha2ds2-vasc")
	assert.Contains(t, out, "has-bled")
	assert.Contains(t, out, "neurology")
	assert.Equal(t, 5, len(strings.Split(strings.TrimSpace(out), "\n")), "header plus four instruments")
}

func TestScoreCommand(t *testing.T) {
	out, err := runCLI(t, "score", "cha2ds2-vasc", "hypertension", "age-75", "stroke", "age-65")
	require.NoError(t, err)

	assert.Contains(t, out, "CHA2DS2-VASc: 4/9")
	assert.Contains(t, out, "tier: high risk")
	assert.Contains(t, out, "risk: 4.00%")
	assert.Contains(t, out, "replaced by a later group member: age-75")
}

func TestScoreCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "score", "--json", "fast", "stage-7")
	require.NoError(t, err)
	assert.Contains(t, out, `"score": 7`)
	assert.Contains(t, out, `"label": "severe dementia"`)
}

func TestScoreCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "score", "nihss")
	assert.ErrorContains(t, err, "UNKNOWN_INSTRUMENT")

	_, err = runCLI(t, "score", "mrs", "grade-9")
	assert.ErrorContains(t, err, "UNKNOWN_FACTOR")

	_, err = runCLI(t, "score")
	assert.Error(t, err)
}

func TestExportThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.json")

	_, err := runCLI(t, "export", "--out", path)
	require.NoError(t, err)

	out, err := runCLI(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "4 instruments")

	out, err = runCLI(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mrs")
}

func TestValidateCommand_Failures(t *testing.T) {
	dir := t.TempDir()

	schemaBroken := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaBroken, []byte(`{"version": "1", "instruments": []}`), 0o644))
	out, err := runCLI(t, "validate", "--path", schemaBroken)
	require.Error(t, err)
	assert.Contains(t, out, "schema:")

	uncovered := filepath.Join(dir, "uncovered.json")
	require.NoError(t, os.WriteFile(uncovered, []byte(`{
  "version": "1",
  "instruments": [{
    "id": "gap",
    "name": "Gap",
    "factors": [{"id": "a", "label": "A", "points": 2}],
    "tiers": [{"minScore": 1, "label": "high", "recommendation": "act"}]
  }]
}`), 0o644))
	_, err = runCLI(t, "validate", "--path", uncovered)
	assert.ErrorContains(t, err, "uncovered")

	_, err = runCLI(t, "validate")
	assert.ErrorContains(t, err, "--path is required")
}
