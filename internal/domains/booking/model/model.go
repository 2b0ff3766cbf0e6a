package model

import (
	"scheduleright/internal/store"
	"scheduleright/shared/model"
)

const (
	DocType    = "booking"
	EntityName = "booking"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// transitions lists the reachable statuses per current status. Completed,
// cancelled and no-show are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Booking struct {
	ID          string `json:"_id"`
	Rev         string `json:"-"`
	Type        string `json:"type"`
	SlotID      string `json:"slot_id"`
	SiteID      string `json:"site_id"`
	OrgID       string `json:"org_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
	model.Metadata
}

// Filter narrows booking listings. Zero fields are ignored.
type Filter struct {
	OrgID       string `json:"org_id"`
	SiteID      string `json:"site_id"`
	SlotID      string `json:"slot_id"`
	Status      string `json:"status"`
	ClientEmail string `json:"client_email"`
}

func (f Filter) Selector() store.Selector {
	selector := store.Selector{"type": DocType}

	if f.OrgID != "" {
		selector["org_id"] = f.OrgID
	}

	if f.SiteID != "" {
		selector["site_id"] = f.SiteID
	}

	if f.SlotID != "" {
		selector["slot_id"] = f.SlotID
	}

	if f.Status != "" {
		selector["status"] = f.Status
	}

	if f.ClientEmail != "" {
		selector["client_email"] = f.ClientEmail
	}

	return selector
}
