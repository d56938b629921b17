package pdfredline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/gardar/redliner/pkg/rederr"
)

// Source supplies the raw bytes of a document.
type Source interface {
	// Name is the file name the document is known by.
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// SourceFor returns an HTTPSource for http(s) references and a FileSource
// for everything else.
func SourceFor(ref string) Source {
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return &HTTPSource{URL: ref}
	}
	return FileSource{Path: ref}
}

// FileSource reads a document from the local file system.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.Path == "" {
		return nil, rederr.DocumentLoad(nil, "pdf path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, rederr.DocumentLoad(err, "failed to read %s", s.Path)
	}
	return data, nil
}

// HTTPSource downloads a document. Transport errors and 5xx responses are
// retried; any other non-2xx response fails immediately.
type HTTPSource struct {
	URL      string
	Client   *http.Client
	Attempts uint
	Delay    time.Duration
}

func (s *HTTPSource) Name() string {
	u, err := url.Parse(s.URL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "document.pdf"
	}
	return path.Base(u.Path)
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	attempts := s.Attempts
	if attempts == 0 {
		attempts = 3
	}
	delay := s.Delay
	if delay == 0 {
		delay = time.Second
	}

	data, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				err := statusError{code: resp.StatusCode}
				if resp.StatusCode >= 500 {
					return nil, err
				}
				return nil, retry.Unrecoverable(err)
			}
			return io.ReadAll(resp.Body)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, rederr.DocumentLoad(err, "failed to download %s", s.URL)
	}
	return data, nil
}
