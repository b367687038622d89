package models

import "time"

// Update is an announcement shown in the portal drawer. Inactive updates stay
// in the back-office only.
type Update struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"` // announcement, new_material, exam_alert
	Link        string    `json:"link,omitempty"`
	IsPinned    bool      `json:"is_pinned"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyUpdate carries update fields from an admin JSON request.
type DummyUpdate struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=announcement new_material exam_alert"`
	Link        string `json:"link"`
	IsPinned    bool   `json:"is_pinned"`
}
