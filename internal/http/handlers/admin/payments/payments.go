// Package payments lists gateway orders for the back-office.
package payments

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

type Repository interface {
	ListAllPayments(ctx context.Context, limit, offset int) ([]models.Payment, error)
}

type Handler struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Handler {
	return &Handler{
		log:  log,
		repo: repo,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.payments.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	payments, err := h.repo.ListAllPayments(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list payments"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":    len(payments),
		"payments": payments,
	}))
}
