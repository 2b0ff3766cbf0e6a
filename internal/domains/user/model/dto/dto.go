package dto

import (
	"scheduleright/internal/domains/user/model"
	gDto "scheduleright/shared/dto"
)

type UserResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name,omitempty"`
	Roles    []string `json:"roles"`
	OrgID    string   `json:"org_id"`
	Verified bool     `json:"verified"`
	Active   bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(mod model.User) {
	r.ID = mod.ID
	r.Email = mod.Email
	r.FullName = mod.FullName
	r.Roles = mod.Roles
	r.OrgID = mod.OrgID
	r.Verified = mod.Verified
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}
