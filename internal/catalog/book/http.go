package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/maktaba/internal/catalog/tag"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	requestutil "github.com/taibuivan/maktaba/internal/platform/request"
	"github.com/taibuivan/maktaba/internal/platform/respond"
)

// Handler implements the HTTP layer for books.
type Handler struct {
	service *Service
	tags    *tag.Handler
}

// NewHandler constructs a new book [Handler]. The tag endpoints are served
// under /books/tags.
func NewHandler(service *Service, tags *tag.Handler) *Handler {
	return &Handler{service: service, tags: tags}
}

// Routes returns the book endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Mount("/tags", handler.tags.Routes())

	// # Public reads
	router.Get("/", handler.list("Books retrieved successfully"))
	router.Get("/localized", handler.list("Localized books retrieved successfully"))
	router.Get("/{id}", handler.get("Book retrieved successfully"))
	router.Get("/localized/{id}", handler.get("Localized book retrieved successfully"))

	// # Owner scoped
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Get("/my", handler.listMine)
		protected.Post("/my", handler.create(false, "Book created successfully"))
		protected.Put("/my/{id}", handler.update(false, "Book updated successfully"))
		protected.Delete("/my/{id}", handler.deleteBook)

		protected.Post("/multilingual", handler.create(true, "Multilingual book created successfully"))
		protected.Put("/multilingual/{id}", handler.update(true, "Multilingual book updated successfully"))
	})

	return router
}

/*
GET /api/books and GET /api/books/localized.

Request:
  - page, limit: int (optional, defaults 1 and 10, limit at most 100)
  - search: string (optional, matches the canonical title)
  - categoryId: uuid (optional)
  - minPrice, maxPrice: decimal (optional, inclusive)
  - sortBy: title | price | createdAt, sortOrder: asc | desc
  - lang: en | ar (optional, otherwise Accept-Language)
*/
func (handler *Handler) list(message string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		q, err := ParseListQuery(request.URL.Query())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		handler.writePage(writer, request, q, message)
	}
}

// GET /api/books/my: same parameters as the public list, restricted to the caller.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	q, err := ParseListQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	q.AuthorID, err = requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writePage(writer, request, q, "My books retrieved successfully")
}

func (handler *Handler) writePage(writer http.ResponseWriter, request *http.Request, q ListQuery, message string) {
	books, meta, err := handler.service.ListBooks(request.Context(), q)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	l := ctxutil.GetLocale(request.Context())
	respond.Paginated(writer, message, LocalizeAll(books, l), meta, respond.WithLocale(l))
}

func (handler *Handler) get(message string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		book, err := handler.service.GetBook(request.Context(), id)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		l := ctxutil.GetLocale(request.Context())
		respond.OK(writer, message, book.Localize(l), respond.WithLocale(l))
	}
}

// create serves POST /my and POST /multilingual. Only the multilingual
// route reads titleEn, titleAr, descriptionEn and descriptionAr.
func (handler *Handler) create(multilingual bool, message string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input CreateRequest
		if err := requestutil.DecodeAndValidate(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		if !multilingual {
			input = input.withoutTranslations()
		}

		book, err := handler.service.CreateBook(request.Context(), userID, input)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		l := ctxutil.GetLocale(request.Context())
		respond.Created(writer, message, book.Localize(l), respond.WithLocale(l))
	}
}

func (handler *Handler) update(multilingual bool, message string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
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

		var input UpdateRequest
		if err := requestutil.DecodeAndValidate(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		if !multilingual {
			input = input.withoutTranslations()
		}

		book, err := handler.service.UpdateBook(request.Context(), userID, id, input)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		l := ctxutil.GetLocale(request.Context())
		respond.OK(writer, message, book.Localize(l), respond.WithLocale(l))
	}
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.DeleteBook(request.Context(), userID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Book deleted successfully")
}
