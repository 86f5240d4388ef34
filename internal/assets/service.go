package assets

import (
	"context"
	"io"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/storage"
)

// ObjectStore is the slice of the object storage client the gateway needs.
type ObjectStore interface {
	Get(ctx context.Context, key string) (*storage.Object, error)
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, limit int32) ([]storage.ObjectInfo, error)
}

// Asset is a fully buffered object ready to serve. Site assets are small, so
// buffering keeps concurrent fetch deduplication simple.
type Asset struct {
	Key         string
	Data        []byte
	ContentType string
	ETag        string
}

// Gateway resolves request paths to object keys and fetches them, collapsing
// concurrent fetches of the same key into one storage round trip.
type Gateway struct {
	store ObjectStore
	group singleflight.Group
}

// NewGateway constructs a Gateway over the given store.
func NewGateway(store ObjectStore) *Gateway {
	return &Gateway{store: store}
}

// ResolveKey maps a URL path to an object key: directory paths get the
// default document appended, and extensionless paths fall back to ".html"
// so "/pricing" serves "pricing.html".
func ResolveKey(urlPath string) string {
	key := strings.Trim(urlPath, "/")
	if key == "" || strings.HasSuffix(urlPath, "/") {
		if key != "" {
			key += "/"
		}
		key += "index.html"
	}
	if !strings.Contains(key, ".") {
		key += ".html"
	}
	return key
}

// Fetch returns the asset stored under key. Missing keys surface the store's
// not-found error.
func (g *Gateway) Fetch(ctx context.Context, key string) (*Asset, error) {
	v, err, _ := g.group.Do(key, func() (any, error) {
		obj, err := g.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		defer obj.Body.Close()
		data, err := io.ReadAll(obj.Body)
		if err != nil {
			return nil, err
		}
		contentType := obj.ContentType
		if contentType == "" {
			contentType = contentTypeFor(key)
		}
		return &Asset{Key: key, Data: data, ContentType: contentType, ETag: obj.ETag}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Asset), nil
}
