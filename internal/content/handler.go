package content

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/httpx"
)

// Handler wires HTTP endpoints for content blocks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountPublicRoutes registers the anonymous read endpoint.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/{slug}", h.handleGet)
}

// MountAdminRoutes registers the dashboard CRUD endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Put("/{slug}", h.handleUpdate)
	r.Delete("/{slug}", h.handleDelete)
}

type blockRequest struct {
	Slug  string `json:"slug" validate:"required,max=128"`
	Title string `json:"title" validate:"max=256"`
	Body  string `json:"body" validate:"required"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	block, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, block)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list content", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, blocks)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "slug and body are required")
		return
	}
	block, err := h.service.Create(r.Context(), req.Slug, req.Title, req.Body)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, block)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed request body")
		return
	}
	req.Slug = chi.URLParam(r, "slug")
	if req.Body == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "body is required")
		return
	}
	block, err := h.service.Update(r.Context(), req.Slug, req.Title, req.Body)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, block)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
