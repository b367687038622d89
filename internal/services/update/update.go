// Package update manages the announcement feed shown in the portal drawer.
package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// The active feed is read on every portal visit, so it is cached like the
// catalog and invalidated on every admin write.
const (
	cacheKeyActive = "updates:active"
	cacheTTL       = time.Hour
)

// UpdateRepository defines the storage methods for announcements.
type UpdateRepository interface {
	CreateUpdate(ctx context.Context, u models.Update) error
	UpdateUpdate(ctx context.Context, u models.Update) (int, error)
	ToggleUpdate(ctx context.Context, id string) (int, error)
	RemoveUpdate(ctx context.Context, id string) (int, error)
	ListUpdates(ctx context.Context, activeOnly bool) ([]models.Update, error)
}

// Cache describes the caching methods the service relies on.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// UpdateService is the business layer over announcements.
type UpdateService struct {
	repo  UpdateRepository
	cache Cache
	log   *slog.Logger
}

// NewUpdateService creates an UpdateService.
func NewUpdateService(repo UpdateRepository, cache Cache, log *slog.Logger) *UpdateService {
	return &UpdateService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListActive returns the student-visible feed, pinned entries first, cached
// for an hour.
func (s *UpdateService) ListActive(ctx context.Context) ([]models.Update, error) {
	var cached []models.Update
	if found, err := s.cache.Get(cacheKeyActive, &cached); err == nil && found {
		return cached, nil
	}

	updates, err := s.repo.ListUpdates(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeyActive, updates, cacheTTL); err != nil {
		s.log.Warn("failed to cache updates", sl.Err(err))
	}
	return updates, nil
}

// ListAll returns the whole feed, inactive entries included. Admin only,
// never cached.
func (s *UpdateService) ListAll(ctx context.Context) ([]models.Update, error) {
	return s.repo.ListUpdates(ctx, false)
}

// Create publishes a new announcement, active immediately.
func (s *UpdateService) Create(ctx context.Context, req models.DummyUpdate) (models.Update, error) {
	u := models.Update{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Link:        req.Link,
		IsPinned:    req.IsPinned,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateUpdate(ctx, u); err != nil {
		return models.Update{}, err
	}
	s.invalidate()
	return u, nil
}

// Update rewrites an announcement's content.
func (s *UpdateService) Update(ctx context.Context, id string, req models.DummyUpdate) (int, error) {
	u := models.Update{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Link:        req.Link,
		IsPinned:    req.IsPinned,
	}
	n, err := s.repo.UpdateUpdate(ctx, u)
	if err == nil && n > 0 {
		s.invalidate()
	}
	return n, err
}

// Toggle flips an announcement between active and hidden.
func (s *UpdateService) Toggle(ctx context.Context, id string) (int, error) {
	n, err := s.repo.ToggleUpdate(ctx, id)
	if err == nil && n > 0 {
		s.invalidate()
	}
	return n, err
}

// Remove deletes an announcement.
func (s *UpdateService) Remove(ctx context.Context, id string) (int, error) {
	n, err := s.repo.RemoveUpdate(ctx, id)
	if err == nil && n > 0 {
		s.invalidate()
	}
	return n, err
}

func (s *UpdateService) invalidate() {
	if err := s.cache.Invalidate(cacheKeyActive); err != nil {
		s.log.Warn("failed to invalidate updates cache", sl.Err(err))
	}
}
