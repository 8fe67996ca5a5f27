// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	requestutil "github.com/taibuivan/maktaba/internal/platform/request"
	"github.com/taibuivan/maktaba/internal/platform/respond"
	"github.com/taibuivan/maktaba/internal/platform/validate"
	"github.com/taibuivan/maktaba/internal/users/auth"
	"github.com/taibuivan/maktaba/pkg/pagination"
)

const maxSearchLength = 255

// Handler implements the HTTP layer for the user directory.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the /users endpoints. All of them
// require a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/profile", handler.getProfile)
	router.Put("/profile", handler.updateProfile)

	router.Get("/", handler.listUsers)
	router.Get("/{id}", handler.getUser)
	router.Put("/{id}", handler.updateUser)
	router.Delete("/{id}", handler.deleteUser)
	router.Get("/{id}/stats", handler.getStats)

	return router
}

/*
GET /api/users.

Request:
  - page, limit: int (optional, defaults 1 and 10)
  - search: string (optional, matches username, email, first or last name)
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	params, problems := pagination.Parse(values)
	search := strings.TrimSpace(values.Get(constants.QuerySearch))

	v := &validate.Validator{}
	for _, problem := range problems {
		v.Custom(problem.Field, true, problem.Message)
	}
	v.Text(constants.QuerySearch, search).MaxLen(constants.QuerySearch, search, maxSearchLength)

	if v.HasErrors() {
		respond.Error(writer, request, apperr.ValidationError("Invalid query parameters", v.Details()...))
		return
	}

	users, meta, err := handler.service.ListUsers(request.Context(), params, search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, "Users retrieved successfully", users, meta)
}

func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User profile retrieved successfully", user)
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.update(writer, request, userID, userID, "Profile updated successfully")
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User retrieved successfully", user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.update(writer, request, userID, id, "User updated successfully")
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, callerID, id, message string) {
	var input auth.UpdateProfileRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateUser(request.Context(), callerID, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message, user)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteUser(request.Context(), userID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "User deleted successfully")
}

func (handler *Handler) getStats(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.GetStats(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User stats retrieved successfully", stats)
}
