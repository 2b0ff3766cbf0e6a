package validator_test

import (
	"net/http"
	"scheduleright/shared/failure"
	"scheduleright/shared/validator"
	"strings"
	"testing"
)

type slotRequest struct {
	SiteID   string `validate:"required"       json:"site_id"`
	Email    string `validate:"required,email" json:"email"`
	Capacity int    `validate:"gte=1,lte=500"  json:"capacity"`
	Status   string `validate:"oneof=active inactive" json:"status"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        slotRequest
		expectError bool
	}{
		{
			name: "valid struct",
			data: slotRequest{
				SiteID:   "site-1",
				Email:    "client@example.com",
				Capacity: 10,
				Status:   "active",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: slotRequest{
				Email:    "client@example.com",
				Capacity: 10,
				Status:   "active",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: slotRequest{
				SiteID:   "site-1",
				Email:    "not-an-email",
				Capacity: 10,
				Status:   "active",
			},
			expectError: true,
		},
		{
			name: "capacity out of range",
			data: slotRequest{
				SiteID:   "site-1",
				Email:    "client@example.com",
				Capacity: 501,
				Status:   "active",
			},
			expectError: true,
		},
		{
			name: "invalid status",
			data: slotRequest{
				SiteID:   "site-1",
				Email:    "client@example.com",
				Capacity: 10,
				Status:   "archived",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateStructFailureShape(t *testing.T) {
	data := slotRequest{Capacity: 0}

	err := validator.ValidateStruct(&data)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}
	if failure.GetErrCode(err) != failure.CodeValidation {
		t.Errorf("expected err code %s, got %s", failure.CodeValidation, failure.GetErrCode(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid body",
			body:        `{"site_id":"site-1","email":"client@example.com","capacity":5,"status":"active"}`,
			expectError: false,
		},
		{
			name:        "malformed json",
			body:        `{"site_id":`,
			expectError: true,
		},
		{
			name:        "valid json failing validation",
			body:        `{"site_id":"","email":"client@example.com","capacity":5,"status":"active"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data slotRequest
			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "booking-1",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid email",
			field:       "client@example.com",
			tag:         "email",
			expectError: false,
		},
		{
			name:        "invalid email",
			field:       "client@",
			tag:         "email",
			expectError: true,
		},
		{
			name:        "lead minutes in range",
			field:       60,
			tag:         "gte=5,lte=10080",
			expectError: false,
		},
		{
			name:        "lead minutes below range",
			field:       1,
			tag:         "gte=5,lte=10080",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}
