package pdfredline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/redliner/pkg/rederr"
)

func TestSourceFor(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, SourceFor("https://example.com/drawings/L-101.pdf"))
	assert.IsType(t, FileSource{}, SourceFor("/data/L-101.pdf"))
	assert.IsType(t, FileSource{}, SourceFor("C:/drawings/L-101.pdf"))

	assert.Equal(t, "L-101.pdf", SourceFor("https://example.com/drawings/L-101.pdf?x=1").Name())
	assert.Equal(t, "L-101.pdf", SourceFor("/data/L-101.pdf").Name())
	assert.Equal(t, "document.pdf", SourceFor("https://example.com/").Name())
}

func TestFileSourceErrors(t *testing.T) {
	_, err := FileSource{}.Fetch(context.Background())
	assert.True(t, errors.Is(err, rederr.ErrDocumentLoad))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.pdf")}.Fetch(context.Background())
	assert.True(t, errors.Is(err, rederr.ErrDocumentLoad))
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL + "/a.pdf", Delay: time.Millisecond}
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, int32(3), hits.Load())
}

func TestHTTPSourceClientErrorIsFinal(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := (&HTTPSource{URL: srv.URL, Delay: time.Millisecond}).Fetch(context.Background())
	assert.True(t, errors.Is(err, rederr.ErrDocumentLoad))
	assert.Equal(t, int32(1), hits.Load())
}
