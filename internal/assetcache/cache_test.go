package assetcache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newAssetServer(t *testing.T) *countingServer {
	t.Helper()
	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		switch r.URL.Path {
		case "/logo.png":
			_, _ = w.Write([]byte("logo-bytes"))
		case "/styles.css":
			_, _ = w.Write([]byte("body{}"))
		case "/big":
			_, _ = w.Write(make([]byte, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newTestCache(t *testing.T, fs afero.Fs, version string, manifest []string, fetcher Fetcher) *Cache {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := New(fs, "/cache", version, manifest, fetcher, logger)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := New(fs, "/cache", "", nil, nil, nil)
	assert.Error(t, err)
	_, err = New(fs, "/cache", "../escape", nil, nil, nil)
	assert.Error(t, err)
}

func TestCache_InstallAndServeOffline(t *testing.T) {
	srv := newAssetServer(t)
	fs := afero.NewMemMapFs()
	c := newTestCache(t, fs, "pozo-v1", []string{"logo.png", "styles.css"}, NewHTTPFetcher(srv.URL+"/", 0))

	require.NoError(t, c.Install(context.Background()))
	assert.True(t, c.Has("logo.png"))
	assert.True(t, c.Has("styles.css"))
	assert.EqualValues(t, 2, srv.hits.Load())

	// the network goes away; cached assets are still served
	srv.Close()
	data, cached, err := c.Fetch(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "logo-bytes", string(data))

	_, _, err = c.Fetch(context.Background(), "missing.png")
	assert.Error(t, err)
}

func TestCache_FetchStoresMisses(t *testing.T) {
	srv := newAssetServer(t)
	c := newTestCache(t, afero.NewMemMapFs(), "pozo-v1", nil, NewHTTPFetcher("", 0))

	data, cached, err := c.Fetch(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "logo-bytes", string(data))

	data, cached, err = c.Fetch(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "logo-bytes", string(data))
	assert.EqualValues(t, 1, srv.hits.Load())

	_, _, err = c.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestCache_InstallFailure(t *testing.T) {
	srv := newAssetServer(t)
	c := newTestCache(t, afero.NewMemMapFs(), "pozo-v1", []string{"logo.png", "nope.png"}, NewHTTPFetcher(srv.URL, 0))

	err := c.Install(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.png")
}

func TestCache_ActivateEvictsStaleVersions(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetcher := fetcherFunc(func(context.Context, string) ([]byte, error) { return []byte("x"), nil })

	old := newTestCache(t, fs, "pozo-v0", []string{"a"}, fetcher)
	require.NoError(t, old.Install(context.Background()))
	require.NoError(t, afero.WriteFile(fs, "/cache/README", []byte("not a version"), filePerm))

	current := newTestCache(t, fs, "pozo-v1", []string{"a"}, fetcher)
	require.NoError(t, current.Install(context.Background()))

	removed, err := current.Activate()
	require.NoError(t, err)
	assert.Equal(t, []string{"pozo-v0"}, removed)
	assert.False(t, old.Has("a"))
	assert.True(t, current.Has("a"))

	exists, _ := afero.Exists(fs, "/cache/README")
	assert.True(t, exists, "plain files are not versions")
}

func TestCache_ActivateWithoutRoot(t *testing.T) {
	c := newTestCache(t, afero.NewMemMapFs(), "pozo-v1", nil, nil)
	removed, err := c.Activate()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestHTTPFetcher(t *testing.T) {
	srv := newAssetServer(t)

	tests := []struct {
		name    string
		fetcher *HTTPFetcher
		key     string
		want    string
		wantErr bool
	}{
		{name: "relative key", fetcher: NewHTTPFetcher(srv.URL+"/", 0), key: "styles.css", want: "body{}"},
		{name: "absolute key", fetcher: NewHTTPFetcher("http://unused.invalid/", 0), key: srv.URL + "/logo.png", want: "logo-bytes"},
		{name: "not found", fetcher: NewHTTPFetcher(srv.URL, 0), key: "/missing", wantErr: true},
		{name: "too large", fetcher: NewHTTPFetcher(srv.URL, 10), key: "/big", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.fetcher.Fetch(context.Background(), tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

type fetcherFunc func(ctx context.Context, key string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, key string) ([]byte, error) { return f(ctx, key) }

func TestCache_FetchPropagatesOriginError(t *testing.T) {
	boom := errors.New("offline")
	c := newTestCache(t, afero.NewMemMapFs(), "pozo-v1", nil,
		fetcherFunc(func(context.Context, string) ([]byte, error) { return nil, boom }))

	_, _, err := c.Fetch(context.Background(), "logo.png")
	assert.ErrorIs(t, err, boom)
}
