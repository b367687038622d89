package models

// Material types. A material is embedded by the portal as an opaque external
// link (Drive, Bunny.net, YouTube), never proxied through this service.
const (
	MaterialTypePDF   = "pdf"
	MaterialTypeVideo = "video"
)

// Material is a PDF or video resource gated behind subject-level access.
type Material struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

// DummyMaterial carries material fields from an admin JSON request.
type DummyMaterial struct {
	SubjectID   string `json:"subject_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=pdf video"`
	Link        string `json:"link" validate:"required,url"`
	Description string `json:"description"`
}
