package models

import "time"

// Board is a first-class examination board (ICSE, CBSE, ...). Subjects hang
// off a board by its short code.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`      // Short code, e.g. "ICSE"
	FullName  string    `json:"full_name"` // e.g. "Indian Certificate of Secondary Education"
	CreatedAt time.Time `json:"created_at"`
}

// Subject is a purchasable catalog entry. Invisible subjects are hidden from
// the student catalog but stay resolvable for subscriptions that already
// reference them.
type Subject struct {
	ID             string `json:"id"`
	Board          string `json:"board"`
	ClassName      string `json:"class_name"`
	SubjectName    string `json:"subject_name"`
	Price          int    `json:"price"` // Rupees; converted to paise at the gateway
	DurationMonths int    `json:"duration_months"`
	IsVisible      bool   `json:"is_visible"`
}

// DisplayName renders the label frozen onto subscriptions at purchase time.
func (s Subject) DisplayName() string {
	return s.Board + " - " + s.ClassName + " - " + s.SubjectName
}

// DummySubject carries subject fields from an admin JSON request before
// validation.
type DummySubject struct {
	Board          string `json:"board" validate:"required"`
	ClassName      string `json:"class_name" validate:"required"`
	SubjectName    string `json:"subject_name" validate:"required"`
	Price          int    `json:"price" validate:"required,gt=0"`
	DurationMonths int    `json:"duration_months" validate:"required,gt=0"`
}

// DummyBoard carries board fields from an admin JSON request.
type DummyBoard struct {
	Name     string `json:"name" validate:"required"`
	FullName string `json:"full_name"`
}
