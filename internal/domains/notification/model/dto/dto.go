package dto

import (
	"scheduleright/internal/domains/notification/model"
	gDto "scheduleright/shared/dto"
)

type UpdatePreferenceRequest struct {
	SMSEnabled          *bool `json:"sms_enabled"           validate:"omitempty"`
	EmailEnabled        *bool `json:"email_enabled"         validate:"omitempty"`
	ReminderLeadMinutes *int  `json:"reminder_lead_minutes" validate:"omitempty,gte=5,lte=10080"`
}

// Apply overlays the request onto an existing preference. Absent fields keep
// their current value.
func (u *UpdatePreferenceRequest) Apply(pref *model.Preference) {
	if u.SMSEnabled != nil {
		pref.SMSEnabled = *u.SMSEnabled
	}

	if u.EmailEnabled != nil {
		pref.EmailEnabled = *u.EmailEnabled
	}

	if u.ReminderLeadMinutes != nil {
		pref.ReminderLeadMinutes = *u.ReminderLeadMinutes
	}
}

type PreferenceResponse struct {
	UserID              string `json:"user_id"`
	SMSEnabled          bool   `json:"sms_enabled"`
	EmailEnabled        bool   `json:"email_enabled"`
	ReminderLeadMinutes int    `json:"reminder_lead_minutes"`
	gDto.Metadata
}

func (r *PreferenceResponse) FromModel(mod model.Preference) {
	r.UserID = mod.UserID
	r.SMSEnabled = mod.SMSEnabled
	r.EmailEnabled = mod.EmailEnabled
	r.ReminderLeadMinutes = mod.ReminderLeadMinutes
	r.Metadata.FromModel(mod.Metadata)
}
