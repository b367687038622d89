// Package catalog serves boards and subjects with a read-through cache.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// Cache keys invalidated on every admin write to the catalog.
const (
	cacheKeySubjects = "catalog:subjects:visible"
	cacheKeyBoards   = "catalog:boards"
	cacheTTL         = time.Hour
)

// CatalogRepository defines the storage methods for boards and subjects.
type CatalogRepository interface {
	CreateBoard(ctx context.Context, board models.Board) error
	UpdateBoard(ctx context.Context, board models.Board) (int, error)
	RemoveBoard(ctx context.Context, id string) (int, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)

	CreateSubject(ctx context.Context, subject models.Subject) error
	UpdateSubject(ctx context.Context, subject models.Subject) (int, error)
	SetSubjectVisibility(ctx context.Context, id string, visible bool) (int, error)
	RemoveSubject(ctx context.Context, id string) (int, error)
	ReadSubject(ctx context.Context, id string) (*models.Subject, error)
	ListSubjects(ctx context.Context, visibleOnly bool) ([]models.Subject, error)
}

// Cache describes the caching methods the service relies on.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService is the business layer over boards and subjects.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListVisibleSubjects returns the student-facing catalog, cached for an hour.
func (s *CatalogService) ListVisibleSubjects(ctx context.Context) ([]models.Subject, error) {
	var cached []models.Subject
	if found, err := s.cache.Get(cacheKeySubjects, &cached); err == nil && found {
		return cached, nil
	}

	subjects, err := s.repo.ListSubjects(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeySubjects, subjects, cacheTTL); err != nil {
		s.log.Warn("failed to cache subjects", sl.Err(err))
	}
	return subjects, nil
}

// ListAllSubjects returns every subject, hidden ones included. Admin only,
// never cached.
func (s *CatalogService) ListAllSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.repo.ListSubjects(ctx, false)
}

// GetSubject resolves a subject by id, hidden or not.
func (s *CatalogService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return s.repo.ReadSubject(ctx, id)
}

// CreateSubject adds a catalog entry, visible by default.
func (s *CatalogService) CreateSubject(ctx context.Context, req models.DummySubject) (models.Subject, error) {
	subject := models.Subject{
		ID:             uuid.NewString(),
		Board:          req.Board,
		ClassName:      req.ClassName,
		SubjectName:    req.SubjectName,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		IsVisible:      true,
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return models.Subject{}, err
	}
	s.invalidateSubjects()
	return subject, nil
}

// UpdateSubject rewrites a subject's fields. Price and duration changes do
// not touch existing subscriptions.
func (s *CatalogService) UpdateSubject(ctx context.Context, id string, req models.DummySubject) (int, error) {
	subject := models.Subject{
		ID:             id,
		Board:          req.Board,
		ClassName:      req.ClassName,
		SubjectName:    req.SubjectName,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
	}
	n, err := s.repo.UpdateSubject(ctx, subject)
	if err != nil {
		return 0, err
	}
	s.invalidateSubjects()
	return n, nil
}

// SetSubjectVisibility hides or reveals a subject in the student catalog.
func (s *CatalogService) SetSubjectVisibility(ctx context.Context, id string, visible bool) (int, error) {
	n, err := s.repo.SetSubjectVisibility(ctx, id, visible)
	if err != nil {
		return 0, err
	}
	s.invalidateSubjects()
	return n, nil
}

// RemoveSubject deletes a subject and, by cascade, its materials.
// Subscriptions keep their frozen copy of the subject name.
func (s *CatalogService) RemoveSubject(ctx context.Context, id string) (int, error) {
	n, err := s.repo.RemoveSubject(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateSubjects()
	return n, nil
}

// ListBoards returns all boards, cached for an hour.
func (s *CatalogService) ListBoards(ctx context.Context) ([]*models.Board, error) {
	var cached []*models.Board
	if found, err := s.cache.Get(cacheKeyBoards, &cached); err == nil && found {
		return cached, nil
	}

	boards, err := s.repo.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeyBoards, boards, cacheTTL); err != nil {
		s.log.Warn("failed to cache boards", sl.Err(err))
	}
	return boards, nil
}

// CreateBoard registers a new examination board.
func (s *CatalogService) CreateBoard(ctx context.Context, req models.DummyBoard) (models.Board, error) {
	board := models.Board{
		ID:        uuid.NewString(),
		Name:      req.Name,
		FullName:  req.FullName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateBoard(ctx, board); err != nil {
		return models.Board{}, err
	}
	s.invalidateBoards()
	return board, nil
}

// UpdateBoard renames a board. Subjects reference boards by short code, so
// renames do not rewrite existing subjects.
func (s *CatalogService) UpdateBoard(ctx context.Context, id string, req models.DummyBoard) (int, error) {
	n, err := s.repo.UpdateBoard(ctx, models.Board{ID: id, Name: req.Name, FullName: req.FullName})
	if err != nil {
		return 0, err
	}
	s.invalidateBoards()
	return n, nil
}

// RemoveBoard deletes a board record.
func (s *CatalogService) RemoveBoard(ctx context.Context, id string) (int, error) {
	n, err := s.repo.RemoveBoard(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateBoards()
	return n, nil
}

func (s *CatalogService) invalidateSubjects() {
	if err := s.cache.Invalidate(cacheKeySubjects); err != nil {
		s.log.Warn("failed to invalidate subjects cache", sl.Err(err))
	}
}

func (s *CatalogService) invalidateBoards() {
	if err := s.cache.Invalidate(cacheKeyBoards); err != nil {
		s.log.Warn("failed to invalidate boards cache", sl.Err(err))
	}
}
