// Package updates holds the back-office CRUD over announcements.
package updates

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

type Service interface {
	ListAll(ctx context.Context) ([]models.Update, error)
	Create(ctx context.Context, req models.DummyUpdate) (models.Update, error)
	Update(ctx context.Context, id string, req models.DummyUpdate) (int, error)
	Toggle(ctx context.Context, id string) (int, error)
	Remove(ctx context.Context, id string) (int, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updates.list"
	log := h.logger(r, op)

	updates, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list updates", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list updates"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":   len(updates),
		"updates": updates,
	}))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updates.create"
	log := h.logger(r, op)

	var req models.DummyUpdate
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create update", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create update"))
		return
	}
	log.Info("update created", slog.String("id", u.ID))
	render.JSON(w, r, response.StatusOKWithData(u))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updates.update"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	var req models.DummyUpdate
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	n, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update announcement", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update announcement"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("update not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": n}))
}

// Toggle flips an announcement between active and hidden without editing it.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updates.toggle"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	n, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		log.Error("failed to toggle update", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to toggle update"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("update not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"toggled": id}))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updates.remove"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	n, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove update", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove update"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("update not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted": n}))
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req *models.DummyUpdate) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return false
	}
	return true
}
