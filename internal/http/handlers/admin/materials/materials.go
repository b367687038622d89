// Package materials holds the back-office CRUD over study materials. Unlike
// the student endpoint there is no access gate here, admins see every link.
package materials

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
	ListAll(ctx context.Context) ([]models.Material, error)
	Create(ctx context.Context, req models.DummyMaterial) (models.Material, error)
	Update(ctx context.Context, id string, req models.DummyMaterial) (int, error)
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
	const op = "handlers.admin.materials.list"
	log := h.logger(r, op)

	materials, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list materials", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list materials"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":     len(materials),
		"materials": materials,
	}))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.materials.create"
	log := h.logger(r, op)

	var req models.DummyMaterial
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create material", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create material"))
		return
	}
	log.Info("material created", slog.String("id", m.ID), slog.String("subject_id", m.SubjectID))
	render.JSON(w, r, response.StatusOKWithData(m))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.materials.update"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	var req models.DummyMaterial
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	n, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update material", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update material"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("material not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": n}))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.materials.remove"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	n, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove material", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove material"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("material not found"))
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

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req *models.DummyMaterial) bool {
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
