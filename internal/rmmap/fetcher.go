package rmmap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// Fetcher retrieves the raw bytes of a map data file.
type Fetcher interface {
	Fetch(ctx context.Context, mapID int) ([]byte, error)
}

// FileName returns the conventional data file name for a map, e.g. Map003.json.
func FileName(mapID int) string {
	return fmt.Sprintf("Map%03d.json", mapID)
}

// FSFetcher reads map files from a file system, typically the embedded data
// directory or os.DirFS of a project folder.
type FSFetcher struct {
	FS  fs.FS
	Dir string // directory inside FS, e.g. "data"
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context, mapID int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := FileName(mapID)
	if f.Dir != "" {
		name = strings.TrimSuffix(f.Dir, "/") + "/" + name
	}
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher downloads map files from BaseURL/MapNNN.json.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// Fetch implements Fetcher. Any non-2xx status is an error.
func (f HTTPFetcher) Fetch(ctx context.Context, mapID int) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimSuffix(f.BaseURL, "/") + "/" + FileName(mapID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected HTTP status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
