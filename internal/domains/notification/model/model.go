package model

import (
	"scheduleright/shared/model"
)

const (
	DocType = "notification_preference"

	// DefaultLeadMinutes is how far ahead of the slot a reminder goes out
	// when the user never set a preference.
	DefaultLeadMinutes = 60

	MinLeadMinutes = 5
	MaxLeadMinutes = 7 * 24 * 60
)

type Preference struct {
	ID                  string `json:"_id"`
	Rev                 string `json:"-"`
	Type                string `json:"type"`
	UserID              string `json:"user_id"`
	SMSEnabled          bool   `json:"sms_enabled"`
	EmailEnabled        bool   `json:"email_enabled"`
	ReminderLeadMinutes int    `json:"reminder_lead_minutes"`
	model.Metadata
}

// DocID derives the deterministic document id for a user's preference, so a
// user can never hold two preference documents.
func DocID(userID string) string {
	return "notifpref:" + userID
}

// Default is the preference applied to users who never saved one.
func Default(userID string) Preference {
	return Preference{
		ID:                  DocID(userID),
		Type:                DocType,
		UserID:              userID,
		SMSEnabled:          true,
		EmailEnabled:        true,
		ReminderLeadMinutes: DefaultLeadMinutes,
	}
}
