package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
)

type Service interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) error
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

// ServeHTTP receives gateway callbacks. The raw body is passed through
// unparsed because the signature covers the exact bytes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid body"))
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.service.HandleWebhook(r.Context(), body, signature); err != nil {
		if errors.Is(err, paymentprovider.ErrInvalidSignature) {
			log.Error("webhook signature mismatch")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid webhook signature"))
			return
		}
		log.Error("failed to process webhook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process webhook"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "webhook processed",
	}))
}
