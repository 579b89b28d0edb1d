package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaJSON = `{
  "hyperparameters": [
    {"name": "perplexity", "type": "numeric", "values": [10, 30]},
    {"name": "metric", "type": "categorical", "values": ["euclidean", "cosine", "manhattan"]}
  ],
  "objectives": ["stress", "runtime"]
}`

const recordsJSON = `[
  {"id": 0, "perplexity": 10, "metric": "euclidean", "stress": 0.1, "runtime": 5},
  {"id": 1, "perplexity": 10, "metric": "cosine", "stress": 0.5, "runtime": 10},
  {"id": 2, "perplexity": 30, "metric": "manhattan", "stress": 0.2, "runtime": 7},
  {"id": 3, "perplexity": 30, "metric": "euclidean", "stress": 0.9, "runtime": 3},
  {"id": 4, "perplexity": 10, "metric": "manhattan", "stress": 0.4, "runtime": 8},
  {"id": 5, "perplexity": 30, "metric": "cosine", "stress": 0.7, "runtime": 12}
]`

const configYAML = `datasets:
  - name: iris-tsne
    records: data/records.json
    metadata: data/metadata.json
    bin_count: 4
store:
  kind: local
  path: store
snapshot:
  codec: go-json
  compression: lz4
resources:
  max_concurrent_builds: 2
`

// writeFixture lays out a config file with one dataset and returns its
// path.
func writeFixture(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "metadata.json"), []byte(schemaJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "records.json"), []byte(recordsJSON), 0o644))

	path := filepath.Join(dir, "drometa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	cfg := writeFixture(t, configYAML)

	out, err := execute(t, "--config", cfg, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "dataset iris-tsne: 6 records, 6 active, bin count 4")
	assert.Contains(t, out, "metric*")
	assert.Contains(t, out, "stress#histogram")
	assert.Contains(t, out, "perplexity:stress")

	out, err = execute(t, "--config", cfg, "inspect", "iris-tsne", "--filter", "stress=0..0.45", "--groups")
	require.NoError(t, err)
	assert.Contains(t, out, "6 records, 3 active")
	assert.Contains(t, out, "filters: [stress]")
	assert.Contains(t, out, "GROUP")
}

func TestInspectErrors(t *testing.T) {
	cfg := writeFixture(t, configYAML)

	_, err := execute(t, "--config", cfg, "inspect", "missing")
	assert.ErrorContains(t, err, `unknown dataset "missing"`)

	_, err = execute(t, "--config", cfg, "inspect", "--filter", "nope=1")
	assert.Error(t, err)

	_, err = execute(t, "--config", cfg, "--log-level", "loud", "inspect")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = execute(t, "--config", cfg, "--log-format", "xml", "inspect")
	assert.ErrorContains(t, err, "invalid log format")
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := writeFixture(t, configYAML)

	out, err := execute(t, "--config", cfg, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest version 0")

	out, err = execute(t, "--config", cfg, "snapshot", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "iris-tsne\tsnapshots/iris-tsne/")

	_, err = execute(t, "--config", cfg, "snapshot", "save", "--prune")
	require.NoError(t, err)

	out, err = execute(t, "--config", cfg, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest version 2")
	assert.Contains(t, out, "iris-tsne")

	blobs, err := filepath.Glob(filepath.Join(filepath.Dir(cfg), "store", "snapshots", "iris-tsne", "*.drm"))
	require.NoError(t, err)
	assert.Len(t, blobs, 1, "prune keeps only the current snapshot")

	out, err = execute(t, "--config", cfg, "snapshot", "load", "iris-tsne")
	require.NoError(t, err)
	assert.Contains(t, out, "dataset iris-tsne: 6 records, 6 active, bin count 4")

	_, err = execute(t, "--config", cfg, "snapshot", "load", "other")
	assert.ErrorContains(t, err, `no snapshot for dataset "other"`)
}
