package domain

import "time"

// SpotlightRecord is one immutable rotation event. Records are only ever
// inserted; an expired record is superseded by a newer one for the same
// category, and the per-category sequence ordered by CreatedDate is the
// full rotation history.
type SpotlightRecord struct {
	ID                string    `json:"id"`
	Category          string    `json:"category"`
	ItemID            string    `json:"itemId"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	IsManualSelection bool      `json:"isManualSelection"`
	CreatedDate       time.Time `json:"createdDate"`
}

// Active reports whether the record's featured window covers now.
func (r SpotlightRecord) Active(now time.Time) bool {
	return r.EndDate.After(now)
}

// Spotlight is the resolved, enriched item currently featured for a
// category. Detail carries the provider's full payload and is opaque to
// the rotation engine.
type Spotlight struct {
	RecordID          string    `json:"recordId"`
	Category          string    `json:"category"`
	ItemID            string    `json:"itemId"`
	Detail            any       `json:"detail"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	IsManualSelection bool      `json:"isManualSelection"`
}

// HistoryEntry is a past rotation enriched with display metadata.
type HistoryEntry struct {
	RecordID          string    `json:"recordId"`
	ItemID            string    `json:"itemId"`
	Title             string    `json:"title"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	CreatedDate       time.Time `json:"createdDate"`
	IsManualSelection bool      `json:"isManualSelection"`
	IsActive          bool      `json:"isActive"`
}

// MediaSummary is the minimal display payload used by history listings.
type MediaSummary struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// RotationEvent is published whenever a category's spotlight changes,
// either by automatic rollover or by a manual override.
type RotationEvent struct {
	Category string    `json:"category"`
	RecordID string    `json:"recordId"`
	ItemID   string    `json:"itemId"`
	Manual   bool      `json:"manual"`
	EndDate  time.Time `json:"endDate"`
}
