package dto

import (
	"scheduleright/infras/jwt"
	userModel "scheduleright/internal/domains/user/model"
	"scheduleright/shared/constant"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type RegisterRequest struct {
	Email    string   `json:"email"     validate:"required,email"`
	Password string   `json:"password"  validate:"required,min=8"`
	FullName string   `json:"full_name" validate:"omitempty,max=100"`
	OrgID    string   `json:"org_id"    validate:"omitempty"`
	Roles    []string `json:"roles"     validate:"omitempty,dive,oneof=ADMIN STAFF VOLUNTEER CLIENT"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	roles := r.Roles
	if len(roles) == 0 {
		roles = []string{constant.RoleClient}
	}

	return userModel.User{
		ID:           userModel.DocID(r.Email),
		Email:        r.Email,
		PasswordHash: hashedPassword,
		FullName:     r.FullName,
		Roles:        roles,
		OrgID:        r.OrgID,
		Verified:     false,
		Active:       true,
		Metadata:     gModel.NewMetadata(timezone.Now().UTC(), userModel.DocID(r.Email)),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}
