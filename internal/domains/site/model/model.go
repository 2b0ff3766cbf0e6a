package model

import "scheduleright/shared/model"

const (
	DocType    = "site"
	EntityName = "site"
)

type Site struct {
	ID       string `json:"_id"`
	Rev      string `json:"-"`
	Type     string `json:"type"`
	OrgID    string `json:"org_id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Timezone string `json:"timezone"`
	model.Metadata
}
