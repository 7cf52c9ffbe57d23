package index

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source provides the two documents the index is built from. How they are
// stored (local extract files, a static file server) is the caller's concern.
type Source interface {
	// Dataset returns the organized prototype extract.
	Dataset(ctx context.Context) ([]byte, error)
	// IconMap returns the id -> icon filename mapping.
	IconMap(ctx context.Context) ([]byte, error)
}

// FileSource reads both documents from local files.
type FileSource struct {
	DatasetPath string
	IconMapPath string
}

func (s FileSource) Dataset(ctx context.Context) ([]byte, error) {
	return readFile(ctx, s.DatasetPath)
}

func (s FileSource) IconMap(ctx context.Context) ([]byte, error) {
	return readFile(ctx, s.IconMapPath)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

var httpClient = &http.Client{Timeout: 8 * time.Second}

// HTTPSource fetches both documents from a static file server hosting the
// extract, e.g. http://host/ultracube_organized_data.json.
type HTTPSource struct {
	BaseURL     string
	DatasetFile string
	IconMapFile string
}

func (s HTTPSource) Dataset(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.DatasetFile)
}

func (s HTTPSource) IconMap(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.IconMapFile)
}

func (s HTTPSource) get(ctx context.Context, file string) ([]byte, error) {
	url := strings.TrimRight(s.BaseURL, "/") + "/" + file
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
