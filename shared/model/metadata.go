package model

import "time"

// Metadata carries the audit fields embedded in every stored document.
type Metadata struct {
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	CreatedBy  string    `json:"created_by"`
	ModifiedBy string    `json:"modified_by"`
}

// NewMetadata returns metadata stamped with the given actor for a fresh document.
func NewMetadata(now time.Time, actor string) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
}

// Touch updates the modification fields in place.
func (m *Metadata) Touch(now time.Time, actor string) {
	m.ModifiedAt = now
	m.ModifiedBy = actor
}
