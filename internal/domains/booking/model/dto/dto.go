package dto

import (
	"github.com/google/uuid"

	"scheduleright/internal/domains/booking/model"
	"scheduleright/shared"
	gDto "scheduleright/shared/dto"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type CreateBookingRequest struct {
	SiteID      string `json:"site_id"      validate:"required"`
	SlotID      string `json:"slot_id"      validate:"required"`
	ClientName  string `json:"client_name"  validate:"required,min=1,max=100"`
	ClientEmail string `json:"client_email" validate:"required,email"`
	ClientPhone string `json:"client_phone" validate:"omitempty,max=32"`
	Notes       string `json:"notes"        validate:"omitempty,max=1000"`
	Token       string `json:"token"        validate:"omitempty,max=128"`
}

func (c *CreateBookingRequest) ToModel(orgID, user string) model.Booking {
	return model.Booking{
		ID:          uuid.NewString(),
		Type:        model.DocType,
		SlotID:      c.SlotID,
		SiteID:      c.SiteID,
		OrgID:       orgID,
		ClientName:  c.ClientName,
		ClientEmail: c.ClientEmail,
		ClientPhone: c.ClientPhone,
		Notes:       c.Notes,
		Status:      model.StatusPending,
		Metadata:    gModel.NewMetadata(timezone.Now().UTC(), user),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled no-show"`
}

type BookingResponse struct {
	ID          string `json:"id"`
	SlotID      string `json:"slot_id"`
	SiteID      string `json:"site_id"`
	OrgID       string `json:"org_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.SlotID = mod.SlotID
	r.SiteID = mod.SiteID
	r.OrgID = mod.OrgID
	r.ClientName = mod.ClientName
	r.ClientEmail = mod.ClientEmail
	r.ClientPhone = mod.ClientPhone
	r.Notes = mod.Notes
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (g *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		g.Bookings[i].FromModel(mod)
	}
}
