package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

type Service interface {
	ListVisibleSubjects(ctx context.Context) ([]models.Subject, error)
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

// ServeHTTP returns the purchasable catalog.
// @Summary List subjects
// @Description Returns all subjects currently visible in the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /subjects [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subjects, err := h.service.ListVisibleSubjects(r.Context())
	if err != nil {
		log.Error("failed to list subjects", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subjects"))
		return
	}

	log.Info("subjects listed", slog.Int("count", len(subjects)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":    len(subjects),
		"subjects": subjects,
	}))
}
