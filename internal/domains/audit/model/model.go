package model

import (
	"time"

	"scheduleright/internal/store"
)

const (
	DocType    = "audit_log"
	EntityName = "audit log"

	FieldTimestamp = "timestamp"
)

// Entry is an append-only record of a state changing operation.
type Entry struct {
	ID           string    `json:"_id"`
	Type         string    `json:"type"`
	Action       string    `json:"action"`
	UserID       string    `json:"user_id"`
	OrgID        string    `json:"org_id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Details      any       `json:"details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Filter narrows audit listings. Zero fields are ignored.
type Filter struct {
	OrgID        string `json:"org_id"`
	UserID       string `json:"user_id"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
}

// Selector translates the filter into store conditions.
func (f Filter) Selector() store.Selector {
	selector := store.Selector{"type": DocType}

	if f.OrgID != "" {
		selector["org_id"] = f.OrgID
	}

	if f.UserID != "" {
		selector["user_id"] = f.UserID
	}

	if f.Action != "" {
		selector["action"] = f.Action
	}

	if f.ResourceType != "" {
		selector["resource_type"] = f.ResourceType
	}

	if f.ResourceID != "" {
		selector["resource_id"] = f.ResourceID
	}

	return selector
}
