// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/users/auth"
	"github.com/taibuivan/maktaba/pkg/pagination"
)

// Service implements the user directory use cases.
type Service struct {
	accounts AccountRepository
	sessions SessionRevoker
	logger   *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(accounts AccountRepository, sessions SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// ListUsers returns one page of the directory.
func (service *Service) ListUsers(context context.Context, params pagination.Params, search string) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.accounts.List(context, params.Offset(), params.Limit, search)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// GetUser returns one account or NotFound.
func (service *Service) GetUser(context context.Context, id string) (*auth.User, error) {
	return service.accounts.FindByID(context, id)
}

/*
UpdateUser changes the profile of id on behalf of callerID.

Returns:
  - error: Forbidden for another user's account, NotFound, or Conflict
    when the new email belongs to someone else
*/
func (service *Service) UpdateUser(context context.Context, callerID, id string, input auth.UpdateProfileRequest) (*auth.User, error) {
	if callerID != id {
		return nil, apperr.Forbidden(MessageUpdateForbidden)
	}

	existing, err := service.accounts.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != existing.Email {
		taken, err := service.accounts.EmailTakenByOther(context, *input.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict(auth.MessageEmailTaken)
		}
	}

	updated, err := service.accounts.UpdateProfile(context, id, auth.ProfilePatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_updated", slog.String("user_id", id))
	return updated, nil
}

// DeleteUser removes the caller's own account and ends its session.
func (service *Service) DeleteUser(context context.Context, callerID, id string) error {
	if callerID != id {
		return apperr.Forbidden(MessageDeleteForbidden)
	}

	if err := service.accounts.Delete(context, id); err != nil {
		return err
	}

	if err := service.sessions.Delete(context, id); err != nil {
		// The account is already gone; a leftover session fails verification anyway
		service.logger.WarnContext(context, "user_session_cleanup_failed",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("user_id", id))
	return nil
}

// GetStats returns the account of id with its book count and key dates.
func (service *Service) GetStats(context context.Context, id string) (*UserStats, error) {
	user, err := service.accounts.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	totalBooks, err := service.accounts.CountBooks(context, id)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		User: user,
		Stats: Stats{
			TotalBooks:  totalBooks,
			JoinedDate:  user.CreatedAt,
			LastUpdated: user.UpdatedAt,
		},
	}, nil
}
