package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetLoader_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "house.png"), []byte("png"), 0644))

	l := &AssetLoader{AssetsDir: dir}
	data, err := l.Load(context.Background(), "images/house.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = l.Load(context.Background(), "images/missing.png")
	assert.Error(t, err)
}

func TestAssetLoader_Empty(t *testing.T) {
	_, err := (&AssetLoader{}).Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestAssetLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/house.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	l := &AssetLoader{Client: srv.Client()}
	data, err := l.Load(context.Background(), srv.URL+"/house.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), data)

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestAssetLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&AssetLoader{}).Load(ctx, "images/house.png")
	assert.ErrorIs(t, err, context.Canceled)
}
