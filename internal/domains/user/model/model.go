package model

import (
	"strings"

	"scheduleright/shared/model"
)

const (
	DocType    = "user"
	EntityName = "user"
)

type User struct {
	ID           string   `json:"_id"`
	Rev          string   `json:"-"`
	Type         string   `json:"type"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password_hash"`
	FullName     string   `json:"full_name,omitempty"`
	Roles        []string `json:"roles"`
	OrgID        string   `json:"org_id"`
	Verified     bool     `json:"verified"`
	Active       bool     `json:"active"`
	model.Metadata
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// DocID derives the document id from the email, which makes email uniqueness
// a primary key constraint on every backend.
func DocID(email string) string {
	return "user:" + strings.ToLower(strings.TrimSpace(email))
}
