// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account serves the user directory: listing, lookup, per-user stats
and self-service profile changes.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: Every route requires a session; writes are limited to the
    caller's own account.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/maktaba/internal/users/auth"
)

// Client-facing messages.
const (
	MessageUpdateForbidden = "You can only update your own account"
	MessageDeleteForbidden = "You can only delete your own account"
)

// # Domain Entities

// Stats summarizes the activity of one user.
type Stats struct {
	TotalBooks  int       `json:"totalBooks"`
	JoinedDate  time.Time `json:"joinedDate"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// UserStats is the body of GET /users/{id}/stats.
type UserStats struct {
	User  *auth.User `json:"user"`
	Stats Stats      `json:"stats"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for the user directory.
type AccountRepository interface {
	/*
		List returns one page of users ordered by registration time.

		A non-empty search matches username, email, first or last name.

		Returns:
		  - []*auth.User: The page
		  - int: Total matches
	*/
	List(context context.Context, offset, limit int, search string) ([]*auth.User, int, error)

	FindByID(context context.Context, id string) (*auth.User, error)

	EmailTakenByOther(context context.Context, email, exceptID string) (bool, error)

	UpdateProfile(context context.Context, id string, patch auth.ProfilePatch) (*auth.User, error)

	// Delete removes the account; its books go with it.
	Delete(context context.Context, id string) error

	// CountBooks returns how many books the user authored.
	CountBooks(context context.Context, id string) (int, error)
}

// SessionRevoker drops the active session of a user.
type SessionRevoker interface {
	Delete(context context.Context, userID string) error
}
