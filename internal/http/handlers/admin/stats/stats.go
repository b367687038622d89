// Package stats serves the back-office dashboard summary.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	statssvc "github.com/HarshG200/neuron-edtech/internal/services/stats"
)

type Service interface {
	Summary(ctx context.Context) (statssvc.Summary, error)
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

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to compute stats"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(summary))
}
