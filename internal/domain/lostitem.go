package domain

import "time"

// ItemType distinguishes lost reports from found reports.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Opposite returns the counterpart type used for match discovery.
func (t ItemType) Opposite() ItemType {
	if t == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// ItemCategory enumerates the fixed lost-and-found categories.
type ItemCategory string

const (
	ItemCategoryElectronics ItemCategory = "electronics"
	ItemCategoryDocuments   ItemCategory = "documents"
	ItemCategoryClothing    ItemCategory = "clothing"
	ItemCategoryAccessories ItemCategory = "accessories"
	ItemCategoryKeys        ItemCategory = "keys"
	ItemCategoryBags        ItemCategory = "bags"
	ItemCategoryBooks       ItemCategory = "books"
	ItemCategoryOther       ItemCategory = "other"
)

// ItemStatus enumerates the claim/resolve state machine.
type ItemStatus string

const (
	ItemStatusReported  ItemStatus = "reported"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusUnclaimed ItemStatus = "unclaimed"
	ItemStatusResolved  ItemStatus = "resolved"
)

// ItemVisibility controls exposure of a lost-and-found record.
type ItemVisibility string

const (
	ItemVisibilityPublic    ItemVisibility = "public"
	ItemVisibilityPrivate   ItemVisibility = "private"
	ItemVisibilityStaffOnly ItemVisibility = "staff-only"
)

// ItemLocation describes where the item was lost or found.
type ItemLocation struct {
	Building string `json:"building,omitempty"`
	Floor    *int   `json:"floor,omitempty"`
	Room     string `json:"room,omitempty"`
	Area     string `json:"area,omitempty"`
}

// PotentialMatch is a scored candidate pairing written at report time.
type PotentialMatch struct {
	MatchedWith string    `json:"matched_with"`
	MatchScore  int       `json:"match_score"`
	MatchedAt   time.Time `json:"matched_at"`
	Reviewed    bool      `json:"reviewed"`
}

// LostItem is the aggregate for lost-and-found records.
type LostItem struct {
	ID          string
	ItemName    string
	Description string
	ItemType    ItemType
	Category    ItemCategory
	Location    ItemLocation
	LastSeenAt  time.Time

	Color               string
	Size                string
	Brand               string
	IdentifyingFeatures string
	EstimatedValue      *float64
	Images              []string

	Status           ItemStatus
	ClaimedBy        *string
	ClaimedAt        *time.Time
	ClaimDescription string

	ReportedBy   string
	ContactPhone string
	ContactEmail string
	Visibility   ItemVisibility

	PotentialMatches []PotentialMatch

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}
