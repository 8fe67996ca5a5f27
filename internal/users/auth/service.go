// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and password recovery.

# Sessions

A session is a signed HS256 token plus its copy in Redis under
auth_token:<userId>. A token is valid only while it is the stored one:

	Login          → overwrite (older tokens stop working)
	Logout         → delete
	ChangePassword → delete
	ResetPassword  → delete

# Password Recovery

ForgotPassword stores a fixed code under otp:<email> for 15 minutes;
ResetPassword consumes it.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/sec"
	"github.com/taibuivan/maktaba/internal/platform/validate"
	"github.com/taibuivan/maktaba/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for signing and checking access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, email string, timeToLive time.Duration) (string, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
type Service struct {
	users    UserRepository
	sessions SessionStore
	otps     OTPStore
	tokens   TokenProvider
	logger   *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(users UserRepository, sessions SessionStore, otps OTPStore, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		otps:     otps,
		tokens:   tokens,
		logger:   logger,
	}
}

// # Registration & Login

/*
Register creates an account and signs it in.

Returns:
  - *Session: The new identity and its token
  - error: Conflict when the email or username is taken
*/
func (service *Service) Register(context context.Context, input RegisterRequest) (*Session, error) {
	emailTaken, usernameTaken, err := service.users.Taken(context, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, apperr.Conflict(MessageEmailTaken)
	}
	if usernameTaken {
		return nil, apperr.Conflict(MessageUsernameTaken)
	}

	hashedPassword, err := hashPassword(input.Password, "password")
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return service.startSession(context, user)
}

/*
Login checks the credentials and replaces the active session of the user.

The same message is returned for an unknown login and a wrong password.
*/
func (service *Service) Login(context context.Context, input LoginRequest) (*Session, error) {
	user, err := service.users.FindByLogin(context, input.UsernameOrEmail)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, apperr.Unauthorized(MessageInvalidCredential)
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageInvalidCredential)
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))
	return service.startSession(context, user)
}

func (service *Service) startSession(context context.Context, user *User) (*Session, error) {
	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, user.Email, constants.SessionTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	if err := service.sessions.Save(context, user.ID, token, constants.SessionTTL); err != nil {
		return nil, apperr.Internal(err)
	}

	return &Session{User: user.Identity(), Token: token}, nil
}

// Logout revokes the active session. It is idempotent.
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.sessions.Delete(context, userID); err != nil {
		return apperr.Internal(err)
	}
	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

/*
Verify implements the middleware token verifier.

The token must carry a valid signature, be the stored session of its user,
and belong to an account that still exists.
*/
func (service *Service) Verify(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized(MessageInvalidToken)
	}

	stored, err := service.sessions.Get(context, claims.UserID)
	if err != nil {
		return nil, err
	}
	if stored != token {
		return nil, apperr.Unauthorized(MessageInvalidToken)
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, apperr.Unauthorized(MessageUserNotFound)
		}
		return nil, err
	}

	claims.Username = user.Username
	claims.Email = user.Email
	return claims, nil
}

// # Password Recovery

// ForgotPassword issues a reset code for a registered email.
func (service *Service) ForgotPassword(context context.Context, email string) error {
	if _, err := service.users.FindByEmail(context, email); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return apperr.NotFound("Email")
		}
		return err
	}

	if err := service.otps.Save(context, email, constants.StaticOTP, constants.OTPTTL); err != nil {
		return apperr.Internal(err)
	}

	service.logger.InfoContext(context, "password_reset_requested")
	return nil
}

// ResetPassword consumes the reset code of email and sets a new password.
// Any active session of the account is revoked.
func (service *Service) ResetPassword(context context.Context, email string, input ResetPasswordRequest) error {
	stored, err := service.otps.Get(context, email)
	if err != nil {
		return apperr.Internal(err)
	}
	if stored == "" || stored != input.OTP {
		return apperr.ValidationError(MessageInvalidOTP)
	}

	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		return err
	}

	if err := service.setPassword(context, user.ID, input.NewPassword); err != nil {
		return err
	}

	if err := service.otps.Delete(context, email); err != nil {
		return apperr.Internal(err)
	}

	service.logger.InfoContext(context, "password_reset", slog.String("user_id", user.ID))
	return nil
}

// # Profile

// Me returns the account of the caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

// UpdateProfile changes the name or email of the caller.
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileRequest) (*User, error) {
	if input.Email != nil {
		taken, err := service.users.EmailTakenByOther(context, *input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict(MessageEmailTaken)
		}
	}

	return service.users.UpdateProfile(context, userID, ProfilePatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	})
}

// ChangePassword replaces the password of the caller and signs it out.
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordRequest) error {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return apperr.ValidationError(MessageWrongPassword)
	}

	if err := service.setPassword(context, userID, input.NewPassword); err != nil {
		return err
	}

	service.logger.InfoContext(context, "password_changed", slog.String("user_id", userID))
	return nil
}

// setPassword stores a new hash and revokes the active session.
func (service *Service) setPassword(context context.Context, userID, password string) error {
	hashedPassword, err := hashPassword(password, "newPassword")
	if err != nil {
		return err
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	if err := service.sessions.Delete(context, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func isStatus(err error, status int) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == status
}

// hashPassword reports an over-long password as a validation failure on field.
func hashPassword(password, field string) (string, error) {
	hashed, err := sec.HashPassword(password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return "", validate.RequiredError(field, fmt.Sprintf("Must be at most %d bytes", sec.MaxPasswordBytes))
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}
	return hashed, nil
}
