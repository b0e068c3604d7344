package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/fstd2nc/internal/usecase"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level=error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestSynthInspectConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "demo.raw")

	_, err := run(t, "synth", in, "--steps=3")
	require.NoError(t, err)

	out, err := run(t, "inspect", in, "--json", "--project-latlon")
	require.NoError(t, err)
	var summary usecase.FileSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Variables, 4)
	assert.Equal(t, usecase.DimSummary{Name: "time", Size: 3}, summary.Variables[0].Dims[0])
	assert.Equal(t, []string{"latitudes", "longitudes"}, summary.Fields)

	out, err = run(t, "inspect", in)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "pres=2")

	_, err = run(t, "convert", in, "--output-dir", dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "demo.nc"))
	assert.NoError(t, err)

	_, err = run(t, "convert", in, "--output-dir", dir)
	assert.Error(t, err, "existing output without --force")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "x.nc", outputPath("out", []string{"in.raw", "x.nc"}))
	assert.Equal(t, filepath.Join("out", "in.nc"), outputPath("out", []string{"/data/in.raw"}))
}

func TestArgs(t *testing.T) {
	_, err := run(t, "inspect")
	assert.Error(t, err)
	_, err = run(t, "convert", "a", "b", "c")
	assert.Error(t, err)
}
