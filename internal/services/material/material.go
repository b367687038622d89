// Package material lists study materials behind the subject access gate.
package material

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HarshG200/neuron-edtech/internal/entitlement"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// Gate denial reasons. Handlers translate both to 403 with the message as the
// response error, so the portal can distinguish "never bought" from "ran out".
var (
	ErrNoSubscription      = errors.New("no active subscription for this subject")
	ErrSubscriptionExpired = errors.New("subscription expired")
)

// MaterialRepository defines the storage methods for materials.
type MaterialRepository interface {
	CreateMaterial(ctx context.Context, m models.Material) error
	UpdateMaterial(ctx context.Context, m models.Material) (int, error)
	RemoveMaterial(ctx context.Context, id string) (int, error)
	ListMaterialsBySubject(ctx context.Context, subjectID string) ([]models.Material, error)
	ListAllMaterials(ctx context.Context) ([]models.Material, error)
}

// SubscriptionReader provides the subscriptions the gate evaluates.
type SubscriptionReader interface {
	ListSubscriptionsByUser(ctx context.Context, email string) ([]models.Subscription, error)
}

// MaterialService enforces the access gate in front of material links.
type MaterialService struct {
	repo MaterialRepository
	subs SubscriptionReader
	now  func() time.Time
	log  *slog.Logger
}

// NewMaterialService creates a MaterialService using the wall clock.
func NewMaterialService(repo MaterialRepository, subs SubscriptionReader, log *slog.Logger) *MaterialService {
	return &MaterialService{
		repo: repo,
		subs: subs,
		now:  time.Now,
		log:  log,
	}
}

// ListForUser returns the subject's materials if the user holds active
// access, and a denial reason otherwise. The material links never leave the
// service on a denial.
func (s *MaterialService) ListForUser(ctx context.Context, email, subjectID string) ([]models.Material, error) {
	subs, err := s.subs.ListSubscriptionsByUser(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	access := entitlement.ComputeAccess([]models.Subject{{ID: subjectID}}, subs, now)
	if access[subjectID] != entitlement.Granted {
		return nil, s.denialReason(subs, subjectID, now)
	}

	return s.repo.ListMaterialsBySubject(ctx, subjectID)
}

// denialReason distinguishes a lapsed purchase from no purchase at all. A
// completed subscription whose window has closed means expired.
func (s *MaterialService) denialReason(subs []models.Subscription, subjectID string, now time.Time) error {
	for _, sub := range subs {
		if sub.SubjectID == subjectID && entitlement.Classify(sub, now) == entitlement.StatusExpired {
			return ErrSubscriptionExpired
		}
	}
	return ErrNoSubscription
}

// ListAll returns every material with its link. Admin only.
func (s *MaterialService) ListAll(ctx context.Context) ([]models.Material, error) {
	return s.repo.ListAllMaterials(ctx)
}

// Create adds a material to a subject.
func (s *MaterialService) Create(ctx context.Context, req models.DummyMaterial) (models.Material, error) {
	m := models.Material{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Type:        req.Type,
		Link:        req.Link,
		Description: req.Description,
	}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return models.Material{}, err
	}
	return m, nil
}

// Update rewrites a material's fields.
func (s *MaterialService) Update(ctx context.Context, id string, req models.DummyMaterial) (int, error) {
	m := models.Material{
		ID:          id,
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Type:        req.Type,
		Link:        req.Link,
		Description: req.Description,
	}
	return s.repo.UpdateMaterial(ctx, m)
}

// Remove deletes a material.
func (s *MaterialService) Remove(ctx context.Context, id string) (int, error) {
	return s.repo.RemoveMaterial(ctx, id)
}
