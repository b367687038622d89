// Package boards holds the back-office CRUD over examination boards.
package boards

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
	ListBoards(ctx context.Context) ([]*models.Board, error)
	CreateBoard(ctx context.Context, req models.DummyBoard) (models.Board, error)
	UpdateBoard(ctx context.Context, id string, req models.DummyBoard) (int, error)
	RemoveBoard(ctx context.Context, id string) (int, error)
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
	const op = "handlers.admin.boards.list"
	log := h.logger(r, op)

	boards, err := h.service.ListBoards(r.Context())
	if err != nil {
		log.Error("failed to list boards", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list boards"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":  len(boards),
		"boards": boards,
	}))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.boards.create"
	log := h.logger(r, op)

	var req models.DummyBoard
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

	board, err := h.service.CreateBoard(r.Context(), req)
	if err != nil {
		log.Error("failed to create board", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create board"))
		return
	}
	log.Info("board created", slog.String("id", board.ID), slog.String("name", board.Name))
	render.JSON(w, r, response.StatusOKWithData(board))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.boards.update"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	var req models.DummyBoard
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

	n, err := h.service.UpdateBoard(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update board", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update board"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("board not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": n}))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.boards.remove"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	n, err := h.service.RemoveBoard(r.Context(), id)
	if err != nil {
		log.Error("failed to remove board", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove board"))
		return
	}
	if n == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("board not found"))
		return
	}
	log.Info("board removed", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted": n}))
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
