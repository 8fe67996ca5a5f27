// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: apperr.NotFound when no account matches
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin returns the account whose username or email equals login.
	FindByLogin(context context.Context, login string) (*User, error)

	FindByEmail(context context.Context, email string) (*User, error)

	// Taken reports which of email and username are already registered.
	Taken(context context.Context, email, username string) (emailTaken, usernameTaken bool, err error)

	// EmailTakenByOther reports whether an account other than exceptID uses email.
	EmailTakenByOther(context context.Context, email, exceptID string) (bool, error)

	// Create persists a new account and fills its timestamps.
	Create(context context.Context, user *User) error

	// UpdateProfile applies patch and returns the updated account.
	UpdateProfile(context context.Context, id string, patch ProfilePatch) (*User, error)

	UpdatePassword(context context.Context, id, passwordHash string) error
}

// # Expiring State

/*
SessionStore keeps the single active access token of each user.

A token is only accepted while it equals the stored value, so saving a new
one (a fresh login) or deleting it (logout, password change) revokes the
previous token immediately.
*/
type SessionStore interface {
	Save(context context.Context, userID, token string, ttl time.Duration) error

	// Get returns the stored token, or "" when there is none.
	Get(context context.Context, userID string) (string, error)

	Delete(context context.Context, userID string) error
}

// OTPStore keeps pending password reset codes keyed by email.
type OTPStore interface {
	Save(context context.Context, email, code string, ttl time.Duration) error

	// Get returns the stored code, or "" when there is none.
	Get(context context.Context, email string) (string, error)

	Delete(context context.Context, email string) error
}
