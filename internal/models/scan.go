package models

import (
	"time"

	"github.com/google/uuid"
)

// Scan is one persisted sustainability assessment. Owner and image reference
// are immutable after creation; the six assessment fields are always present,
// with sentinel values substituted for anything the model could not determine.
type Scan struct {
	ID                     uuid.UUID `json:"id"`
	UserID                 uuid.UUID `json:"user_id"`
	ImageURL               string    `json:"image_url"`
	ImagePublicID          string    `json:"image_public_id"`
	ProductName            string    `json:"product_name"`
	MaterialType           string    `json:"material_type"`
	Recyclability          string    `json:"recyclability"`
	CarbonFootprint        string    `json:"carbon_footprint"`
	DisposalMethod         string    `json:"disposal_method"`
	AlternativeSuggestions string    `json:"alternative_suggestions"`
	CreatedAt              time.Time `json:"created_at"`
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
