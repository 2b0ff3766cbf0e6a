package reminder

import "time"

// BookingCreatedEvent is published on every successful booking and consumed
// by the reminder worker.
type BookingCreatedEvent struct {
	BookingID   string    `json:"booking_id"`
	OrgID       string    `json:"org_id"`
	SiteID      string    `json:"site_id"`
	SlotID      string    `json:"slot_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}
