package locations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// FileSource reads the directory from a local JSON file.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file:" + s.Path }

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) (*domain.Directory, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &domain.DirectoryLoadError{Source: s.Name(), Err: err}
	}
	defer f.Close()

	dir, err := Decode(f)
	if err != nil {
		return nil, &domain.DirectoryLoadError{Source: s.Name(), Err: err}
	}
	return dir, nil
}

// HTTPSource fetches the directory document with a single GET.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets a 10s timeout.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{URL: url, client: client}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

// Load fetches and decodes the document. Failures are not retried.
func (s *HTTPSource) Load(ctx context.Context) (*domain.Directory, error) {
	dir, err := s.load(ctx)
	if err != nil {
		return nil, &domain.DirectoryLoadError{Source: s.Name(), Err: err}
	}
	return dir, nil
}

func (s *HTTPSource) load(ctx context.Context) (*domain.Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}
