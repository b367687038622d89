package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/HarshG200/neuron-edtech/internal/http/middlewarectx"
	"github.com/HarshG200/neuron-edtech/internal/http/response"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
)

type Service interface {
	Verify(ctx context.Context, req models.DummyVerify) (*models.Subscription, error)
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

// ServeHTTP verifies the checkout signature and activates the subscription.
// @Summary Verify a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param request body models.DummyVerify true "Gateway checkout result"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /payments/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

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

	var req models.DummyVerify
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	// The subscription owner comes from the stored payment record, not the
	// caller. The identity check above only keeps the route authenticated.
	sub, err := h.service.Verify(r.Context(), req)
	if err != nil {
		if errors.Is(err, paymentprovider.ErrInvalidSignature) {
			log.Error("payment signature mismatch", slog.String("order_id", req.OrderID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid payment signature"))
			return
		}
		log.Error("failed to verify payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify payment"))
		return
	}

	log.Info("payment verified", slog.String("order_id", req.OrderID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":      "payment verified successfully",
		"subscription": sub,
	}))
}
