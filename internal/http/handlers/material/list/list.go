package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/HarshG200/neuron-edtech/internal/http/middlewarectx"
	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
	materialsvc "github.com/HarshG200/neuron-edtech/internal/services/material"
)

type Service interface {
	ListForUser(ctx context.Context, email, subjectID string) ([]models.Material, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP returns the subject's materials when access is granted.
// @Summary List materials for a subject
// @Description Returns the study materials if the caller holds an active subscription, 403 otherwise
// @Tags materials
// @Produce json
// @Param subjectID path string true "Subject ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /materials/{subjectID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.material.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("subject id is required"))
		return
	}

	materials, err := h.service.ListForUser(r.Context(), email, subjectID)
	if err != nil {
		switch {
		case errors.Is(err, materialsvc.ErrNoSubscription):
			log.Info("access denied, no subscription",
				slog.String("email", email), slog.String("subject_id", subjectID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("No active subscription for this subject"))
		case errors.Is(err, materialsvc.ErrSubscriptionExpired):
			log.Info("access denied, subscription expired",
				slog.String("email", email), slog.String("subject_id", subjectID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Subscription expired"))
		default:
			log.Error("failed to list materials", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list materials"))
		}
		return
	}

	log.Info("materials listed", slog.String("subject_id", subjectID), slog.Int("count", len(materials)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":     len(materials),
		"materials": materials,
	}))
}
