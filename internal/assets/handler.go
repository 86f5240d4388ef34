package assets

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/httpx"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// cacheControl is applied to every served asset; the bucket is the source of
// truth and an hour of staleness is acceptable for the site.
const cacheControl = "public, max-age=3600"

const notFoundKey = "404.html"

// fallback404 is served when the bucket has no 404 page of its own.
const fallback404 = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>404 - Page Not Found</title></head>
<body>
  <h1>404</h1>
  <p>The page you're looking for doesn't exist.</p>
  <a href="/">Return Home</a>
</body>
</html>`

// Handler serves the public site out of object storage and exposes the
// dashboard's asset management endpoints.
type Handler struct {
	logger  *slog.Logger
	gateway *Gateway
	store   ObjectStore
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, gateway *Gateway, store ObjectStore) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, gateway: gateway, store: store}
}

// MountAdminRoutes registers asset management endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Put("/*", h.handleUpload)
	r.Delete("/*", h.handleDelete)
}

// ServeSite is the catch-all GET handler for the public site.
func (h *Handler) ServeSite(w http.ResponseWriter, r *http.Request) {
	key := ResolveKey(r.URL.Path)
	asset, err := h.gateway.Fetch(r.Context(), key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.serveNotFound(w, r)
			return
		}
		h.logger.Error("fetch asset", slog.String("key", key), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Storage Unavailable", "")
		return
	}
	h.writeAsset(w, r, asset, http.StatusOK)
}

func (h *Handler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	if asset, err := h.gateway.Fetch(r.Context(), notFoundKey); err == nil {
		h.writeAsset(w, r, asset, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(fallback404))
}

func (h *Handler) writeAsset(w http.ResponseWriter, r *http.Request, asset *Asset, status int) {
	if asset.ETag != "" {
		if status == http.StatusOK && r.Header.Get("If-None-Match") == asset.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", asset.ETag)
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.WriteHeader(status)
	_, _ = w.Write(asset.Data)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := int32(100)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 32); err == nil && parsed > 0 && parsed <= 1000 {
			limit = int32(parsed)
		}
	}
	infos, err := h.store.List(r.Context(), r.URL.Query().Get("prefix"), limit)
	if err != nil {
		h.logger.Error("list assets", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Storage Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"objects": infos, "count": len(infos)})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "object key required")
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFor(key)
	}
	if err := h.store.Put(r.Context(), key, contentType, r.Body); err != nil {
		h.logger.Error("upload asset", slog.String("key", key), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Storage Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "object key required")
		return
	}
	if err := h.store.Delete(r.Context(), key); err != nil {
		h.logger.Error("delete asset", slog.String("key", key), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Storage Unavailable", "")
		return
	}
	httpx.NoContent(w)
}
