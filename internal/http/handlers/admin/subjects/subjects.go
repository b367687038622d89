// Package subjects holds the back-office CRUD over catalog subjects.
package subjects

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
	ListAllSubjects(ctx context.Context) ([]models.Subject, error)
	CreateSubject(ctx context.Context, req models.DummySubject) (models.Subject, error)
	UpdateSubject(ctx context.Context, id string, req models.DummySubject) (int, error)
	SetSubjectVisibility(ctx context.Context, id string, visible bool) (int, error)
	RemoveSubject(ctx context.Context, id string) (int, error)
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
	const op = "handlers.admin.subjects.list"
	log := h.logger(r, op)

	subjects, err := h.service.ListAllSubjects(r.Context())
	if err != nil {
		log.Error("failed to list subjects", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subjects"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":    len(subjects),
		"subjects": subjects,
	}))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subjects.create"
	log := h.logger(r, op)

	var req models.DummySubject
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	subject, err := h.service.CreateSubject(r.Context(), req)
	if err != nil {
		log.Error("failed to create subject", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create subject"))
		return
	}
	log.Info("subject created", slog.String("id", subject.ID))
	render.JSON(w, r, response.StatusOKWithData(subject))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subjects.update"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	var req models.DummySubject
	if !h.decodeAndValidate(w, r, log, &req) {
		return
	}

	n, err := h.service.UpdateSubject(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update subject", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update subject"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("subject not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": n}))
}

// SetVisibility hides or reveals a subject in the student catalog without
// deleting it.
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subjects.visibility"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	var req struct {
		IsVisible bool `json:"is_visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	n, err := h.service.SetSubjectVisibility(r.Context(), id, req.IsVisible)
	if err != nil {
		log.Error("failed to set visibility", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to set visibility"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("subject not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":         id,
		"is_visible": req.IsVisible,
	}))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subjects.remove"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	n, err := h.service.RemoveSubject(r.Context(), id)
	if err != nil {
		log.Error("failed to remove subject", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove subject"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("subject not found"))
		return
	}
	log.Info("subject removed", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted": n}))
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req *models.DummySubject) bool {
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
