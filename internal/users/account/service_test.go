// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/sec"
	"github.com/taibuivan/maktaba/internal/users/auth"
	"github.com/taibuivan/maktaba/pkg/pagination"
	"github.com/taibuivan/maktaba/pkg/pointer"
)

const (
	aliceID   = "0190a1b2-0000-7000-8000-0000000000a1"
	bobID     = "0190a1b2-0000-7000-8000-0000000000b2"
	missingID = "0190a1b2-0000-7000-8000-0000000000ff"
)

type memoryAccounts struct {
	mu         sync.Mutex
	users      map[string]*auth.User
	bookCounts map[string]int
	deleted    []string
}

func newMemoryAccounts() *memoryAccounts {
	joined := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &memoryAccounts{
		users: map[string]*auth.User{
			aliceID: {ID: aliceID, Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell", CreatedAt: joined, UpdatedAt: joined},
			bobID:   {ID: bobID, Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Builder", CreatedAt: joined.Add(time.Hour), UpdatedAt: joined.Add(2 * time.Hour)},
		},
		bookCounts: map[string]int{aliceID: 3},
	}
}

func (repository *memoryAccounts) List(_ context.Context, offset, limit int, search string) ([]*auth.User, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := make([]*auth.User, 0)
	for _, u := range repository.users {
		haystack := strings.ToLower(u.Username + " " + u.Email + " " + u.FirstName + " " + u.LastName)
		if search == "" || strings.Contains(haystack, strings.ToLower(search)) {
			copied := *u
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })

	total := len(matches)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	return matches[offset:min(offset+limit, total)], total, nil
}

func (repository *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	u, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (repository *memoryAccounts) EmailTakenByOther(_ context.Context, email, exceptID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, u := range repository.users {
		if u.Email == email && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryAccounts) UpdateProfile(_ context.Context, id string, patch auth.ProfilePatch) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	u, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	copied := *u
	return &copied, nil
}

func (repository *memoryAccounts) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, id)
	repository.deleted = append(repository.deleted, id)
	return nil
}

func (repository *memoryAccounts) CountBooks(_ context.Context, id string) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.bookCounts[id], nil
}

type recordingRevoker struct {
	revoked []string
}

func (revoker *recordingRevoker) Delete(_ context.Context, userID string) error {
	revoker.revoked = append(revoker.revoked, userID)
	return nil
}

func newTestService() (*Service, *memoryAccounts, *recordingRevoker) {
	accounts := newMemoryAccounts()
	revoker := &recordingRevoker{}
	return NewService(accounts, revoker, slog.New(slog.NewTextHandler(io.Discard, nil))), accounts, revoker
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	return appError.HTTPStatus
}

func TestListUsers(t *testing.T) {
	service, _, _ := newTestService()

	t.Run("pages in registration order", func(t *testing.T) {
		users, meta, err := service.ListUsers(context.Background(), pagination.Params{Page: 2, Limit: 1}, "")
		require.NoError(t, err)

		require.Len(t, users, 1)
		assert.Equal(t, bobID, users[0].ID)
		assert.Equal(t, 2, meta.Total)
		assert.Equal(t, 2, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("search matches names", func(t *testing.T) {
		users, meta, err := service.ListUsers(context.Background(), pagination.Params{Page: 1, Limit: 10}, "liddell")
		require.NoError(t, err)

		require.Len(t, users, 1)
		assert.Equal(t, aliceID, users[0].ID)
		assert.Equal(t, 1, meta.Total)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("another user's account is forbidden", func(t *testing.T) {
		service, accounts, _ := newTestService()

		_, err := service.UpdateUser(context.Background(), bobID, aliceID, auth.UpdateProfileRequest{FirstName: pointer.To("Mallory")})
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
		assert.Equal(t, MessageUpdateForbidden, err.Error())
		assert.Equal(t, "Alice", accounts.users[aliceID].FirstName)
	})

	t.Run("email of another user is a conflict", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.UpdateUser(context.Background(), aliceID, aliceID, auth.UpdateProfileRequest{Email: pointer.To("bob@example.com")})
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
		assert.Equal(t, auth.MessageEmailTaken, err.Error())
	})

	t.Run("own account", func(t *testing.T) {
		service, _, _ := newTestService()

		updated, err := service.UpdateUser(context.Background(), aliceID, aliceID, auth.UpdateProfileRequest{
			LastName: pointer.To("Hargreaves"),
			Email:    pointer.To("alice@example.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.FirstName)
		assert.Equal(t, "Hargreaves", updated.LastName)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("another user's account is forbidden", func(t *testing.T) {
		service, accounts, revoker := newTestService()

		err := service.DeleteUser(context.Background(), bobID, aliceID)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
		assert.Empty(t, accounts.deleted)
		assert.Empty(t, revoker.revoked)
	})

	t.Run("own account ends the session", func(t *testing.T) {
		service, accounts, revoker := newTestService()

		require.NoError(t, service.DeleteUser(context.Background(), aliceID, aliceID))
		assert.Equal(t, []string{aliceID}, accounts.deleted)
		assert.Equal(t, []string{aliceID}, revoker.revoked)
	})
}

func TestGetStats(t *testing.T) {
	service, accounts, _ := newTestService()

	stats, err := service.GetStats(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Stats.TotalBooks)
	assert.Equal(t, accounts.users[aliceID].CreatedAt, stats.Stats.JoinedDate)

	stats, err = service.GetStats(context.Background(), bobID)
	require.NoError(t, err)
	assert.Zero(t, stats.Stats.TotalBooks)
	assert.Equal(t, accounts.users[bobID].UpdatedAt, stats.Stats.LastUpdated)

	_, err = service.GetStats(context.Background(), missingID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestHandler(t *testing.T) {
	service, _, _ := newTestService()
	router := NewHandler(service).Routes()

	serve := func(method, target, body, userID string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, strings.NewReader(body))
		if userID != "" {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("list", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/?limit=1", "", aliceID)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Users retrieved successfully")
		assert.Contains(t, recorder.Body.String(), `"totalPages":2`)
		assert.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("list rejects bad paging", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/?page=0&limit=500", "", aliceID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid query parameters")
	})

	t.Run("list rejects malformed search", func(t *testing.T) {
		for _, target := range []string{"/?search=%FF%FE", "/?search=al%00ice", "/?page=92233720368547760&limit=100"} {
			recorder := serve(http.MethodGet, target, "", aliceID)
			assert.Equal(t, http.StatusBadRequest, recorder.Code, target)
			assert.Contains(t, recorder.Body.String(), "Invalid query parameters")
		}
	})

	t.Run("profile", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/profile", "", bobID)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "bob@example.com")
	})

	t.Run("get malformed id", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/nope", "", aliceID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("stats", func(t *testing.T) {
		recorder := serve(http.MethodGet, "/"+aliceID+"/stats", "", bobID)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"totalBooks":3`)
	})

	t.Run("update another user", func(t *testing.T) {
		recorder := serve(http.MethodPut, "/"+aliceID, `{"firstName":"Eve"}`, bobID)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("update rejects invalid email", func(t *testing.T) {
		recorder := serve(http.MethodPut, "/profile", `{"email":"not-an-email"}`, bobID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("delete own account", func(t *testing.T) {
		recorder := serve(http.MethodDelete, "/"+bobID, "", bobID)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "User deleted successfully")
	})
}
