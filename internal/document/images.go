package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const maxImageSize = 10 << 20

// ErrNoImage is returned for an empty image reference.
var ErrNoImage = errors.New("no image reference")

// ImageLoader fetches the raw bytes of an image reference.
type ImageLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// AssetLoader resolves http(s) references over the network and everything
// else as a file path relative to AssetsDir.
type AssetLoader struct {
	AssetsDir string
	Client    *http.Client
}

// Load implements ImageLoader.
func (l *AssetLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetch(ctx, ref)
	}

	path := ref
	if !filepath.IsAbs(path) && l.AssetsDir != "" {
		path = filepath.Join(l.AssetsDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

func (l *AssetLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	return data, nil
}
