package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	requestutil "github.com/taibuivan/maktaba/internal/platform/request"
	"github.com/taibuivan/maktaba/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes is mounted under /books/tags.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listTags)
	router.With(middleware.RequireAuth).Post("/", handler.createTag)
	return router
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.OK(writer, "Tags retrieved successfully", LocalizeAll(tags, l), respond.WithLocale(l))
}

func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input CreateRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.CreateTag(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.Created(writer, "Tag created successfully", tag.Localize(l), respond.WithLocale(l))
}
