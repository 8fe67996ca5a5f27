package book

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/maktaba/internal/catalog/category"
	"github.com/taibuivan/maktaba/internal/catalog/tag"
	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	"github.com/taibuivan/maktaba/internal/platform/sec"
	"github.com/taibuivan/maktaba/pkg/pagination"
	"github.com/taibuivan/maktaba/pkg/pointer"
)

const (
	ownerID    = "0190b000-0000-7000-8000-000000000001"
	strangerID = "0190b000-0000-7000-8000-000000000002"
	fictionID  = "0190b000-0000-7000-8000-0000000000c1"
	missingID  = "0190b000-0000-7000-8000-0000000000ff"
)

type memoryRepository struct {
	mu      sync.Mutex
	books   map[string]*Book
	tagIDs  map[string][]string
	updates int
	deletes int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{books: map[string]*Book{}, tagIDs: map[string][]string{}}
}

func (repository *memoryRepository) List(_ context.Context, q ListQuery) ([]*Book, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := make([]*Book, 0)
	for _, b := range repository.books {
		switch {
		case q.Search != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(q.Search)):
		case q.CategoryID != "" && b.CategoryID != q.CategoryID:
		case q.AuthorID != "" && b.AuthorID != q.AuthorID:
		case q.MinPrice != nil && b.Price.LessThan(*q.MinPrice):
		case q.MaxPrice != nil && b.Price.GreaterThan(*q.MaxPrice):
		default:
			copied := *b
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })

	total := len(matches)
	start := min(q.Offset(), total)
	end := min(start+q.Limit, total)
	return matches[start:end], total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Book, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	b, ok := repository.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	copied := *b
	return &copied, nil
}

func (repository *memoryRepository) FindAuthorID(_ context.Context, id string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	b, ok := repository.books[id]
	if !ok {
		return "", apperr.NotFound("Book")
	}
	return b.AuthorID, nil
}

func (repository *memoryRepository) Create(_ context.Context, book *Book, tagIDs []string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	copied := *book
	copied.Tags = []tag.Tag{}
	repository.books[book.ID] = &copied
	repository.tagIDs[book.ID] = tagIDs
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, id string, patch Patch) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.updates++
	b, ok := repository.books[id]
	if !ok {
		return apperr.NotFound("Book")
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.TitleTranslations != nil {
		b.TitleTranslations = patch.TitleTranslations
	}
	if patch.Price != nil {
		b.Price = NewPrice(*patch.Price)
	}
	if patch.TagIDs != nil {
		repository.tagIDs[id] = *patch.TagIDs
	}
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.deletes++
	delete(repository.books, id)
	return nil
}

func (repository *memoryRepository) seed(b Book) {
	b.Category = &category.Category{ID: b.CategoryID, Name: "Fiction", NameTranslations: &i18n.Text{En: "Fiction", Ar: "روايات"}}
	repository.books[b.ID] = &b
}

func newTestService() (*Service, *memoryRepository) {
	repository := newMemoryRepository()
	return NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func price(value string) *decimal.Decimal {
	amount := decimal.RequireFromString(value)
	return &amount
}

func paramsOf(page, limit int) pagination.Params {
	return pagination.Params{Page: page, Limit: limit}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	return appError.HTTPStatus
}

func TestUpdateBook_ForeignBookIsForbidden(t *testing.T) {
	service, repository := newTestService()
	repository.seed(Book{ID: "b1", Title: "Mine", AuthorID: ownerID, CategoryID: fictionID})

	_, err := service.UpdateBook(context.Background(), strangerID, "b1", UpdateRequest{Title: pointer.To("Stolen")})

	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	assert.Equal(t, MessageEditForbidden, err.Error())
	assert.Zero(t, repository.updates)
	assert.Equal(t, "Mine", repository.books["b1"].Title)
}

func TestDeleteBook_ForeignBookIsForbidden(t *testing.T) {
	service, repository := newTestService()
	repository.seed(Book{ID: "b1", Title: "Mine", AuthorID: ownerID, CategoryID: fictionID})

	err := service.DeleteBook(context.Background(), strangerID, "b1")

	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	assert.Equal(t, MessageDeleteForbidden, err.Error())
	assert.Zero(t, repository.deletes)
	assert.Contains(t, repository.books, "b1")
}

func TestUpdateBook_UnknownBookIsNotFound(t *testing.T) {
	service, repository := newTestService()

	_, err := service.UpdateBook(context.Background(), ownerID, missingID, UpdateRequest{})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Zero(t, repository.updates)
}

func TestUpdateBook_Owner(t *testing.T) {
	service, repository := newTestService()
	repository.seed(Book{ID: "b1", Title: "Draft", AuthorID: ownerID, CategoryID: fictionID})

	updated, err := service.UpdateBook(context.Background(), ownerID, "b1", UpdateRequest{
		Title:   pointer.To("Final"),
		TitleAr: pointer.To("نهائي"),
		Price:   price("12.5"),
		Tags:    &[]string{},
	})
	require.NoError(t, err)

	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, &i18n.Text{En: "Final", Ar: "نهائي"}, updated.TitleTranslations)
	assert.Equal(t, "12.50", updated.Price.StringFixed(2))
	assert.Equal(t, []string{}, repository.tagIDs["b1"])
}

func TestCreateBook_MergesTranslations(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateBook(context.Background(), ownerID, CreateRequest{
		Title:       "Canonical",
		Description: "About",
		Price:       price("10"),
		CategoryID:  fictionID,
		TitleEn:     pointer.To("A"),
		TitleAr:     pointer.To("ب"),
	})
	require.NoError(t, err)

	assert.Equal(t, ownerID, created.AuthorID)
	assert.Equal(t, &i18n.Text{En: "A", Ar: "ب"}, created.TitleTranslations)
	assert.Nil(t, created.DescriptionTranslations)

	assert.Equal(t, "ب", created.Localize(locale.Arabic).Title)
	assert.Equal(t, "A", created.Localize(locale.English).Title)
	assert.Equal(t, "A", created.Localize(locale.Locale("fr")).Title)
}

func TestListBooks_Pagination(t *testing.T) {
	service, repository := newTestService()
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		repository.seed(Book{ID: title, Title: title, AuthorID: ownerID, CategoryID: fictionID, Price: NewPrice(decimal.NewFromInt(5))})
	}

	books, meta, err := service.ListBooks(context.Background(), ListQuery{Params: paramsOf(2, 2)})
	require.NoError(t, err)

	assert.Len(t, books, 2)
	assert.Equal(t, "C", books[0].Title)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestListBooks_MinAboveMaxIsEmpty(t *testing.T) {
	service, repository := newTestService()
	repository.seed(Book{ID: "b1", Title: "Cheap", AuthorID: ownerID, CategoryID: fictionID, Price: NewPrice(decimal.NewFromInt(20))})

	books, meta, err := service.ListBooks(context.Background(), ListQuery{
		Params:   paramsOf(1, 10),
		MinPrice: price("50"),
		MaxPrice: price("10"),
	})
	require.NoError(t, err)

	assert.Empty(t, books)
	assert.Zero(t, meta.Total)
	assert.False(t, meta.HasNext)
}

func TestBook_Localize(t *testing.T) {
	b := Book{
		Title:             "Canonical",
		TitleTranslations: &i18n.Text{En: "A", Ar: "ب"},
		Category:          &category.Category{Name: "Fiction", NameTranslations: &i18n.Text{En: "Fiction", Ar: "روايات"}},
		Tags:              []tag.Tag{{Name: "classic", NameTranslations: &i18n.Text{En: "Classic", Ar: "كلاسيكي"}}},
	}

	arabic := b.Localize(locale.Arabic)

	assert.Equal(t, "ب", arabic.Title)
	assert.Equal(t, "روايات", arabic.Category.Name)
	assert.Equal(t, "كلاسيكي", arabic.Tags[0].Name)
	assert.Equal(t, b.TitleTranslations, arabic.TitleTranslations)
	assert.Nil(t, arabic.Description)

	// The source is left untouched and projecting twice changes nothing
	assert.Equal(t, "Fiction", b.Category.Name)
	assert.Equal(t, arabic, arabic.Localize(locale.Arabic))
}

func TestPrice_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(NewPrice(decimal.RequireFromString("19.9")))
	require.NoError(t, err)
	assert.Equal(t, `"19.90"`, string(raw))
}

// # HTTP

func TestHandler(t *testing.T) {
	service, repository := newTestService()
	repository.seed(Book{
		ID:                "0190b000-0000-7000-8000-0000000000b1",
		Title:             "Canonical",
		TitleTranslations: &i18n.Text{En: "A", Ar: "ب"},
		AuthorID:          ownerID,
		CategoryID:        fictionID,
		Price:             NewPrice(decimal.RequireFromString("19.9")),
		Tags:              []tag.Tag{},
	})

	router := middleware.Locale()(NewHandler(service, tag.NewHandler(tag.NewService(nil, nil))).Routes())

	serve := func(method, target, body, userID string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, strings.NewReader(body))
		if userID != "" {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	decode := func(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var envelope map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		return envelope
	}

	t.Run("list projects onto the requested locale", func(t *testing.T) {
		for lang, want := range map[string]string{"ar": "ب", "en": "A", "fr": "A"} {
			recorder := serve(http.MethodGet, "/?lang="+lang, "", "")
			require.Equal(t, http.StatusOK, recorder.Code)

			envelope := decode(t, recorder)
			first := envelope["data"].([]any)[0].(map[string]any)
			assert.Equal(t, want, first["title"], lang)
			assert.Equal(t, "19.90", first["price"])
			assert.NotNil(t, envelope["pagination"])
		}
	})

	t.Run("plain routes carry locale and translations", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/?lang=fr", "", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode(t, recorder)
		assert.Equal(t, "en", envelope["locale"])
		first := envelope["data"].([]any)[0].(map[string]any)
		assert.Equal(t, map[string]any{"en": "A", "ar": "ب"}, first["titleTranslations"])

		recorder = serve(http.MethodGet, "/0190b000-0000-7000-8000-0000000000b1?lang=ar", "", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		envelope = decode(t, recorder)
		assert.Equal(t, "ar", envelope["locale"])
		assert.Equal(t, "ب", envelope["data"].(map[string]any)["title"])
	})

	t.Run("localized list message and locale", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/localized", nil)
		request.Header.Set("Accept-Language", "ar-SA,en;q=0.5")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		envelope := decode(t, recorder)
		assert.Equal(t, "Localized books retrieved successfully", envelope["message"])
		assert.Equal(t, "ar", envelope["locale"])
		assert.Equal(t, "ar", recorder.Header().Get("Content-Language"))
	})

	t.Run("invalid query", func(t *testing.T) {
		for _, target := range []string{"/?limit=500", "/?search=%FF%FE", "/?search=a%00b", "/?page=92233720368547760&limit=100"} {
			recorder := serve(http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusBadRequest, recorder.Code, target)
			assert.Contains(t, recorder.Body.String(), MessageInvalidQuery)
		}
	})

	t.Run("detail not found", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/"+missingID, "", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), MessageNotFound)
	})

	t.Run("my books requires auth", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/my", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("my books lists only the caller", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/my", "", strangerID)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, decode(t, recorder)["data"])
	})

	t.Run("create validates price", func(t *testing.T) {
		body := `{"title":"T","description":"D","price":"10.999","categoryId":"` + fictionID + `"}`
		recorder := serve(http.MethodPost, "/my", body, ownerID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"price"`)
	})

	t.Run("plain create ignores per-language fields", func(t *testing.T) {
		body := `{"title":"Plain","description":"D","price":"10","categoryId":"` + fictionID + `","titleAr":"عادي"}`
		recorder := serve(http.MethodPost, "/my?lang=ar", body, ownerID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		data := decode(t, recorder)["data"].(map[string]any)
		assert.Equal(t, "Plain", data["title"])
		assert.Nil(t, data["titleTranslations"])
	})

	t.Run("multilingual create", func(t *testing.T) {
		body := `{"title":"Base","description":"D","price":"10","categoryId":"` + fictionID + `","titleAr":"أساس"}`
		recorder := serve(http.MethodPost, "/multilingual?lang=ar", body, ownerID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		data := decode(t, recorder)["data"].(map[string]any)
		assert.Equal(t, "أساس", data["title"])
		assert.Equal(t, map[string]any{"en": "Base", "ar": "أساس"}, data["titleTranslations"])
	})

	t.Run("stranger cannot edit", func(t *testing.T) {
		recorder := serve(http.MethodPut, "/my/0190b000-0000-7000-8000-0000000000b1", `{"title":"X"}`, strangerID)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), MessageEditForbidden)
	})

	t.Run("owner deletes", func(t *testing.T) {
		recorder := serve(http.MethodDelete, "/my/0190b000-0000-7000-8000-0000000000b1", "", ownerID)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Book deleted successfully")
	})
}
