package redline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gardar/redliner/pkg/ocr"
	"github.com/gardar/redliner/pkg/rederr"
)

func TestLoadJobsStopsAtEmptyRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- doc_number: "4711"
  name: Loop 1
  link: https://example.com/4711.pdf
- doc_number: ""
- doc_number: "4712"
  link: b.pdf
`), 0o644))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, Job{DocNumber: "4711", Name: "Loop 1", Link: "https://example.com/4711.pdf"}, jobs[0])

	_, err = LoadJobs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunBatchContinuesAfterFailure(t *testing.T) {
	page := letterPage()
	engine := ocr.NewRecorded(nil, []ocr.Block{block("FCS0702-01-03", 10, 10, 90, 20)})
	s, err := NewSession(testConfig("current"), engine, WithLoader(fakeLoader{page: page}))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "pdfs")
	reports, err := s.RunBatch(context.Background(), []Job{
		{DocNumber: "1", Link: "one.pdf"},
		{DocNumber: "2", Link: "two.pdf"},
		{DocNumber: "3"},
	}, dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.Len(t, reports, 3)
	assert.False(t, reports[0].Outcome.Success())
	assert.Equal(t, StatusSuccess, reports[1].Result)
	assert.Equal(t, filepath.Join(dir, "2_annotated.pdf"), page.saved)
	assert.Equal(t, "pdf path cannot be empty", reports[2].Result)

	out := filepath.Join(dir, "report", "report.yaml")
	require.NoError(t, WriteReport(out, reports))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var back []Report
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "2", back[1].DocNumber)
	assert.Equal(t, reports[1].Outcome.Log, back[1].Outcome.Log)
}

func TestRunBatchStopsOnCancel(t *testing.T) {
	s, err := NewSession(testConfig("current"), ocr.NewRecorded(), WithLoader(fakeLoader{page: letterPage()}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := s.RunBatch(ctx, []Job{{DocNumber: "1", Link: "a.pdf"}}, "")
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRunBatchOutputDirFailure(t *testing.T) {
	s, err := NewSession(testConfig("current"), ocr.NewRecorded(), WithLoader(fakeLoader{page: letterPage()}))
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err = s.RunBatch(context.Background(), []Job{{DocNumber: "1", Link: "a.pdf"}}, filepath.Join(file, "pdfs"))
	assert.True(t, errors.Is(err, rederr.ErrSave))
}
