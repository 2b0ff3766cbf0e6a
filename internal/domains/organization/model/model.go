package model

import "scheduleright/shared/model"

const (
	DocType    = "organization"
	EntityName = "organization"

	StatusActive   = "active"
	StatusArchived = "archived"
)

type Settings struct {
	Timezone string `json:"timezone"`
}

type Organization struct {
	ID       string   `json:"_id"`
	Rev      string   `json:"-"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	TenantID string   `json:"tenant_id"`
	Settings Settings `json:"settings"`
	Status   string   `json:"status"`
	model.Metadata
}

func (o Organization) Archived() bool {
	return o.Status == StatusArchived
}
