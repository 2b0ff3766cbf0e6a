package dto

import (
	"github.com/google/uuid"

	"scheduleright/internal/domains/site/model"
	"scheduleright/shared"
	gDto "scheduleright/shared/dto"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type CreateSiteRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Address  string `json:"address"  validate:"omitempty,max=255"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func (c *CreateSiteRequest) ToModel(orgID, orgTimezone, user string) model.Site {
	tz := c.Timezone
	if tz == "" {
		tz = orgTimezone
	}

	return model.Site{
		ID:       uuid.NewString(),
		Type:     model.DocType,
		OrgID:    orgID,
		Name:     c.Name,
		Address:  c.Address,
		Timezone: tz,
		Metadata: gModel.NewMetadata(timezone.Now().UTC(), user),
	}
}

type UpdateSiteRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address"  validate:"omitempty,max=255"`
	Timezone *string `json:"timezone" validate:"omitempty,timezone"`
}

func (u *UpdateSiteRequest) Apply(site *model.Site, user string) {
	if u.Name != nil {
		site.Name = *u.Name
	}

	if u.Address != nil {
		site.Address = *u.Address
	}

	if u.Timezone != nil {
		site.Timezone = *u.Timezone
	}

	site.Touch(timezone.Now().UTC(), user)
}

type SiteResponse struct {
	ID       string `json:"id"`
	OrgID    string `json:"org_id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Timezone string `json:"timezone"`
	gDto.Metadata
}

func (r *SiteResponse) FromModel(mod model.Site) {
	r.ID = mod.ID
	r.OrgID = mod.OrgID
	r.Name = mod.Name
	r.Address = mod.Address
	r.Timezone = mod.Timezone
	r.Metadata.FromModel(mod.Metadata)
}

type GetSitesResponse struct {
	Sites     []SiteResponse `json:"sites"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (g *GetSitesResponse) FromModels(models []model.Site, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Sites = make([]SiteResponse, len(models))
	for i, mod := range models {
		g.Sites[i].FromModel(mod)
	}
}
