package dto

import (
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// ItemLocationRequest mirrors the location sub-document.
type ItemLocationRequest struct {
	Building string `json:"building"`
	Floor    *int   `json:"floor"`
	Room     string `json:"room"`
	Area     string `json:"area"`
}

// ReportItemRequest payload. Field constraints follow the lost-item schema.
type ReportItemRequest struct {
	ItemName            string                `json:"item_name" validate:"required,min=3,max=100"`
	Description         string                `json:"description" validate:"required,min=10,max=500"`
	ItemType            domain.ItemType       `json:"item_type" validate:"required,oneof=lost found"`
	Category            domain.ItemCategory   `json:"category" validate:"omitempty,oneof=electronics documents clothing accessories keys bags books other"`
	Location            ItemLocationRequest   `json:"location"`
	LastSeenAt          time.Time             `json:"last_seen_at" validate:"required"`
	Color               string                `json:"color"`
	Size                string                `json:"size"`
	Brand               string                `json:"brand"`
	IdentifyingFeatures string                `json:"identifying_features"`
	EstimatedValue      *float64              `json:"estimated_value"`
	Images              []string              `json:"images" validate:"dive,url"`
	ContactPhone        string                `json:"contact_phone" validate:"required,min=7,max=20"`
	ContactEmail        string                `json:"contact_email" validate:"required,email"`
	Visibility          domain.ItemVisibility `json:"visibility" validate:"omitempty,oneof=public private staff-only"`
}

// ClaimItemRequest payload.
type ClaimItemRequest struct {
	ClaimDescription string `json:"claim_description" validate:"required,min=10,max=500"`
}

// LostItemResponse is the full lost-and-found representation.
type LostItemResponse struct {
	ID                  string                  `json:"id"`
	ItemName            string                  `json:"item_name"`
	Description         string                  `json:"description"`
	ItemType            domain.ItemType         `json:"item_type"`
	Category            domain.ItemCategory     `json:"category"`
	Location            domain.ItemLocation     `json:"location"`
	LastSeenAt          time.Time               `json:"last_seen_at"`
	Color               string                  `json:"color,omitempty"`
	Size                string                  `json:"size,omitempty"`
	Brand               string                  `json:"brand,omitempty"`
	IdentifyingFeatures string                  `json:"identifying_features,omitempty"`
	EstimatedValue      *float64                `json:"estimated_value,omitempty"`
	Images              []string                `json:"images,omitempty"`
	Status              domain.ItemStatus       `json:"status"`
	ClaimedBy           *string                 `json:"claimed_by,omitempty"`
	ClaimedAt           *time.Time              `json:"claimed_at,omitempty"`
	ClaimDescription    string                  `json:"claim_description,omitempty"`
	ReportedBy          string                  `json:"reported_by"`
	ContactPhone        string                  `json:"contact_phone"`
	ContactEmail        string                  `json:"contact_email"`
	Visibility          domain.ItemVisibility   `json:"visibility"`
	PotentialMatches    []domain.PotentialMatch `json:"potential_matches"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	ExpiresAt           time.Time               `json:"expires_at"`
}

// MatchCandidateResponse pairs a candidate with its score.
type MatchCandidateResponse struct {
	Item  LostItemResponse `json:"item"`
	Score int              `json:"score"`
}

// NewLostItemResponse maps a domain item.
func NewLostItemResponse(item *domain.LostItem) LostItemResponse {
	return LostItemResponse{
		ID:                  item.ID,
		ItemName:            item.ItemName,
		Description:         item.Description,
		ItemType:            item.ItemType,
		Category:            item.Category,
		Location:            item.Location,
		LastSeenAt:          item.LastSeenAt,
		Color:               item.Color,
		Size:                item.Size,
		Brand:               item.Brand,
		IdentifyingFeatures: item.IdentifyingFeatures,
		EstimatedValue:      item.EstimatedValue,
		Images:              item.Images,
		Status:              item.Status,
		ClaimedBy:           item.ClaimedBy,
		ClaimedAt:           item.ClaimedAt,
		ClaimDescription:    item.ClaimDescription,
		ReportedBy:          item.ReportedBy,
		ContactPhone:        item.ContactPhone,
		ContactEmail:        item.ContactEmail,
		Visibility:          item.Visibility,
		PotentialMatches:    item.PotentialMatches,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
		ExpiresAt:           item.ExpiresAt,
	}
}

// ToLocation converts the request sub-document.
func (l ItemLocationRequest) ToLocation() domain.ItemLocation {
	return domain.ItemLocation{
		Building: l.Building,
		Floor:    l.Floor,
		Room:     l.Room,
		Area:     l.Area,
	}
}
