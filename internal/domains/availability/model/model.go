package model

import (
	"time"

	"scheduleright/shared/model"
)

const (
	DocType    = "availability_slot"
	EntityName = "availability slot"

	StatusActive      = "active"
	StatusDeactivated = "deactivated"

	FieldStartTime = "start_time"
)

type Slot struct {
	ID              string    `json:"_id"`
	Rev             string    `json:"-"`
	Type            string    `json:"type"`
	SiteID          string    `json:"site_id"`
	OrgID           string    `json:"org_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Capacity        int       `json:"capacity"`
	CurrentBookings int       `json:"current_bookings"`
	Status          string    `json:"status"`
	model.Metadata
}

// Available reports whether the slot can take one more booking.
func (s Slot) Available() bool {
	return s.Status == StatusActive && s.CurrentBookings < s.Capacity
}
