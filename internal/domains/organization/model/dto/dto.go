package dto

import (
	"github.com/google/uuid"

	"scheduleright/internal/domains/organization/model"
	"scheduleright/shared"
	gDto "scheduleright/shared/dto"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type CreateOrganizationRequest struct {
	Name     string `json:"name"      validate:"required,min=3,max=100"`
	TenantID string `json:"tenant_id" validate:"omitempty,max=100"`
	Timezone string `json:"timezone"  validate:"omitempty,timezone"`
}

func (c *CreateOrganizationRequest) ToModel(user string) model.Organization {
	tenantID := c.TenantID
	if tenantID == "" {
		tenantID = uuid.NewString()
	}

	tz := c.Timezone
	if tz == "" {
		tz = "UTC"
	}

	return model.Organization{
		ID:       uuid.NewString(),
		Type:     model.DocType,
		Name:     c.Name,
		TenantID: tenantID,
		Settings: model.Settings{Timezone: tz},
		Status:   model.StatusActive,
		Metadata: gModel.NewMetadata(timezone.Now().UTC(), user),
	}
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=3,max=100"`
	Timezone *string `json:"timezone" validate:"omitempty,timezone"`
}

// Apply merges the non-nil fields into the model.
func (u *UpdateOrganizationRequest) Apply(org *model.Organization, user string) {
	if u.Name != nil {
		org.Name = *u.Name
	}

	if u.Timezone != nil {
		org.Settings.Timezone = *u.Timezone
	}

	org.Touch(timezone.Now().UTC(), user)
}

type OrganizationResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
	Timezone string `json:"timezone"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *OrganizationResponse) FromModel(mod model.Organization) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.TenantID = mod.TenantID
	r.Timezone = mod.Settings.Timezone
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (g *GetOrganizationsResponse) FromModels(models []model.Organization, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Organizations = make([]OrganizationResponse, len(models))
	for i, mod := range models {
		g.Organizations[i].FromModel(mod)
	}
}
