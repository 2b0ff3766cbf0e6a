package dto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"

	"scheduleright/internal/domains/embed/model"
	"scheduleright/shared"
	gDto "scheduleright/shared/dto"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type CreateEmbedConfigRequest struct {
	SiteID       string   `json:"site_id"       validate:"required"`
	AllowDomains []string `json:"allow_domains" validate:"omitempty,dive,hostname_rfc1123"`
}

func (c *CreateEmbedConfigRequest) ToModel(orgID, user string) model.EmbedConfig {
	return model.EmbedConfig{
		ID:           uuid.NewString(),
		Type:         model.DocType,
		OrgID:        orgID,
		SiteID:       c.SiteID,
		Token:        NewToken(),
		AllowDomains: c.AllowDomains,
		Status:       model.StatusActive,
		Metadata:     gModel.NewMetadata(timezone.Now().UTC(), user),
	}
}

// NewToken returns a 32 character random hex token used as the public
// lookup key for the embed widget.
func NewToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

type EmbedConfigResponse struct {
	ID           string   `json:"id"`
	OrgID        string   `json:"org_id"`
	SiteID       string   `json:"site_id"`
	Token        string   `json:"token"`
	AllowDomains []string `json:"allow_domains,omitempty"`
	Status       string   `json:"status"`
	gDto.Metadata
}

func (r *EmbedConfigResponse) FromModel(mod model.EmbedConfig) {
	r.ID = mod.ID
	r.OrgID = mod.OrgID
	r.SiteID = mod.SiteID
	r.Token = mod.Token
	r.AllowDomains = mod.AllowDomains
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetEmbedConfigsResponse struct {
	Embeds    []EmbedConfigResponse `json:"embeds"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (g *GetEmbedConfigsResponse) FromModels(models []model.EmbedConfig, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Embeds = make([]EmbedConfigResponse, len(models))
	for i, mod := range models {
		g.Embeds[i].FromModel(mod)
	}
}
