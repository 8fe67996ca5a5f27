package category

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	requestutil "github.com/taibuivan/maktaba/internal/platform/request"
	"github.com/taibuivan/maktaba/internal/platform/respond"
	"github.com/taibuivan/maktaba/internal/platform/validate"
	"github.com/taibuivan/maktaba/pkg/slice"
)

const maxSearchLength = 255

// Handler implements the HTTP layer for categories.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the category endpoints. Reads are public; writes require a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/", handler.createCategory)
		protected.Put("/{id}", handler.updateCategory)
		protected.Delete("/{id}", handler.deleteCategory)
	})

	return router
}

/*
GET /api/categories.

Request:
  - search: string (optional, matches the canonical name)
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	search := strings.TrimSpace(request.URL.Query().Get(constants.QuerySearch))

	v := &validate.Validator{}
	v.Text(constants.QuerySearch, search).MaxLen(constants.QuerySearch, search, maxSearchLength)
	if v.HasErrors() {
		respond.Error(writer, request, apperr.ValidationError("Invalid query parameters", v.Details()...))
		return
	}

	categories, err := handler.service.ListCategories(request.Context(), search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	localized := slice.Map(categories, func(c Category) Category { return c.Localize(l) })

	respond.OK(writer, "Categories retrieved successfully", localized, respond.WithLocale(l))
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.GetCategory(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.OK(writer, "Category retrieved successfully", category.Localize(l), respond.WithLocale(l))
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.Created(writer, "Category created successfully", category.Localize(l), respond.WithLocale(l))
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.OK(writer, "Category updated successfully", category.Localize(l), respond.WithLocale(l))
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCategory(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Category deleted successfully")
}
