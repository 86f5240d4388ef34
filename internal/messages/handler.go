package messages

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/httpx"
)

// Handler wires HTTP endpoints for contact messages.
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

// MountPublicRoutes registers the anonymous submission endpoint.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/", h.handleSubmit)
}

// MountAdminRoutes registers the dashboard inbox endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Delete("/{id}", h.handleDelete)
}

type submitRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=300"`
	Body    string `json:"body" validate:"required,max=10000"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "name, email and body are required")
		return
	}
	msg, err := h.service.Submit(r.Context(), req.Name, req.Email, req.Subject, req.Body)
	if err != nil {
		h.logger.Error("submit message", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": msg.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list messages", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, msgs)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
