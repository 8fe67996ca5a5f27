// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"
)

// User is a registered account as stored in the database.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the public view of a user returned by the auth endpoints.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Identity strips the stored user down to its public fields.
func (u *User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Session is returned by register and login.
type Session struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// ProfilePatch lists the profile fields an update writes. Nil fields are
// left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// # Requests

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,min=1,max=255"`
	LastName  string `json:"lastName" validate:"required,min=1,max=255"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,max=255"`
	Password        string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	OTP             string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest is the body of PUT /auth/profile. Every field is optional.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitnil,min=1,max=255"`
	LastName  *string `json:"lastName,omitempty" validate:"omitnil,min=1,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitnil,email,max=255"`
}
