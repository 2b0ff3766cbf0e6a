package dto

import (
	"scheduleright/internal/domains/audit/model"
	"scheduleright/shared"
	"scheduleright/shared/constant"
	"scheduleright/shared/timezone"
)

type EntryResponse struct {
	ID           string `json:"id"`
	Action       string `json:"action"`
	UserID       string `json:"user_id"`
	OrgID        string `json:"org_id"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Details      any    `json:"details,omitempty"`
	Timestamp    string `json:"timestamp"`
}

func (e *EntryResponse) FromModel(mod model.Entry) {
	e.ID = mod.ID
	e.Action = mod.Action
	e.UserID = mod.UserID
	e.OrgID = mod.OrgID
	e.ResourceType = mod.ResourceType
	e.ResourceID = mod.ResourceID
	e.Details = mod.Details
	e.Timestamp = timezone.Format(mod.Timestamp, constant.DateFormat)
}

type GetEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (g *GetEntriesResponse) FromModels(models []model.Entry, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Entries = make([]EntryResponse, len(models))
	for i, mod := range models {
		g.Entries[i].FromModel(mod)
	}
}
