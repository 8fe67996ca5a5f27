// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	requestutil "github.com/taibuivan/maktaba/internal/platform/request"
	"github.com/taibuivan/maktaba/internal/platform/respond"
	"github.com/taibuivan/maktaba/internal/platform/validate"
)

// Handler implements the HTTP layer for authentication.
type Handler struct {
	service *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the auth endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/logout", handler.logout)
		protected.Get("/me", handler.me)
		protected.Get("/profile", handler.me)
		protected.Put("/profile", handler.updateProfile)
		protected.Put("/change-password", handler.changePassword)
	})

	return router
}

/*
POST /api/auth/register.

Request Body:
  - username: string (3..50, letters and digits)
  - email: string
  - password: string (6..128)
  - firstName, lastName: string
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "User registered successfully", session)
}

/*
POST /api/auth/login.

Request Body:
  - usernameOrEmail: string
  - password: string
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", session)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logout successful")
}

func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input ForgotPasswordRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// There is no delivery channel, so the code is part of the message
	respond.Message(writer, "OTP sent successfully. Use OTP: "+constants.StaticOTP)
}

/*
POST /api/auth/reset-password?email=...

Request Body:
  - otp: string (6 digits)
  - newPassword, confirmPassword: string (must match)
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	email := request.URL.Query().Get(constants.QueryEmail)
	if email == "" {
		respond.Error(writer, request, validate.RequiredError(constants.QueryEmail, MessageEmailRequired))
		return
	}

	var input ResetPasswordRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), email, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password reset successfully")
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User retrieved successfully", user.Identity())
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile updated successfully", user.Identity())
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), userID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed successfully. Please login again.")
}
