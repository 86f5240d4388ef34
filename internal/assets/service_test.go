package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/storage"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

type fakeObject struct {
	data        []byte
	contentType string
	etag        string
}

type fakeStore struct {
	objects map[string]fakeObject
	gets    int
	failure error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]fakeObject)}
}

func (s *fakeStore) put(key, contentType, body string) {
	s.objects[key] = fakeObject{data: []byte(body), contentType: contentType, etag: `"` + key + `-v1"`}
}

func (s *fakeStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	s.gets++
	if s.failure != nil {
		return nil, s.failure
	}
	obj, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		ETag:        obj.etag,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	if s.failure != nil {
		return s.failure
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = fakeObject{data: data, contentType: contentType, etag: `"` + key + `-v1"`}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.failure != nil {
		return s.failure
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) List(ctx context.Context, prefix string, limit int32) ([]storage.ObjectInfo, error) {
	if s.failure != nil {
		return nil, s.failure
	}
	var infos []storage.ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: time.Now()})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	if int32(len(infos)) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

var _ ObjectStore = (*fakeStore)(nil)

func TestResolveKey(t *testing.T) {
	cases := map[string]string{
		"/":               "index.html",
		"":                "index.html",
		"/about":          "about.html",
		"/about/":         "about/index.html",
		"/about.html":     "about.html",
		"/css/style.css":  "css/style.css",
		"/blog/post-one":  "blog/post-one.html",
		"/blog/post-one/": "blog/post-one/index.html",
	}
	for path, want := range cases {
		require.Equal(t, want, ResolveKey(path), "path %q", path)
	}
}

func TestGatewayFetch(t *testing.T) {
	store := newFakeStore()
	store.put("index.html", "text/html", "<h1>Home</h1>")
	gateway := NewGateway(store)

	asset, err := gateway.Fetch(context.Background(), "index.html")
	require.NoError(t, err)
	require.Equal(t, "<h1>Home</h1>", string(asset.Data))
	require.Equal(t, "text/html", asset.ContentType)
	require.NotEmpty(t, asset.ETag)
}

func TestGatewayFetchMissing(t *testing.T) {
	gateway := NewGateway(newFakeStore())
	_, err := gateway.Fetch(context.Background(), "missing.html")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGatewayDerivesContentType(t *testing.T) {
	store := newFakeStore()
	store.put("css/style.css", "", "body{}")
	gateway := NewGateway(store)

	asset, err := gateway.Fetch(context.Background(), "css/style.css")
	require.NoError(t, err)
	require.Contains(t, asset.ContentType, "text/css")
}

func TestContentTypeFor(t *testing.T) {
	require.Contains(t, contentTypeFor("app.js"), "javascript")
	require.Contains(t, contentTypeFor("logo.svg"), "image/svg+xml")
	require.Equal(t, "application/octet-stream", contentTypeFor("blob.bin"))
	require.Equal(t, "application/octet-stream", contentTypeFor("no-extension"))
}

func TestGatewayStorageError(t *testing.T) {
	store := newFakeStore()
	store.failure = errors.New("bucket unreachable")
	gateway := NewGateway(store)
	_, err := gateway.Fetch(context.Background(), "index.html")
	require.ErrorIs(t, err, store.failure)
}
