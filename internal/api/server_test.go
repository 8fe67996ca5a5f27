// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/maktaba/internal/catalog/book"
	"github.com/taibuivan/maktaba/internal/catalog/category"
	"github.com/taibuivan/maktaba/internal/catalog/tag"
	"github.com/taibuivan/maktaba/internal/platform/config"
	"github.com/taibuivan/maktaba/internal/platform/sec"
	"github.com/taibuivan/maktaba/internal/users/account"
	"github.com/taibuivan/maktaba/internal/users/auth"
)

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) (*sec.AuthClaims, error) {
	return nil, errors.New("bad token")
}

func newTestServer(t *testing.T, deps HealthDependencies) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := NewHealthHandlers(deps, logger)
	cfg := &config.Config{ServerPort: "0", Environment: "development", APIPrefix: "/api"}

	server := NewServer(context, cfg, logger, rejectingVerifier{}, Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(auth.NewService(nil, nil, nil, nil, logger)),
		Users:      account.NewHandler(account.NewService(nil, nil, logger)),
		Categories: category.NewHandler(category.NewService(nil, logger)),
		Books:      book.NewHandler(book.NewService(nil, logger), tag.NewHandler(tag.NewService(nil, logger))),
	})
	return server.Handler()
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestReady(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		handler := newTestServer(t, HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return nil },
		})

		recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
	})

	t.Run("redis down", func(t *testing.T) {
		handler := newTestServer(t, HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return errors.New("connection refused") },
		})

		recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "SERVICE_UNAVAILABLE")
		assert.Contains(t, recorder.Body.String(), `"field":"redis"`)
		assert.Contains(t, recorder.Body.String(), "connection refused")
		assert.NotContains(t, recorder.Body.String(), `"field":"postgres"`)
	})
}

func TestServiceInfo(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/api", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data Info `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "1.0.0", body.Data.Version)
	assert.Equal(t, "/api/books", body.Data.Endpoints["books"])
}

func TestUnknownRoute(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestProtectedRoutes(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	t.Run("anonymous", func(t *testing.T) {
		recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		request.Header.Set("Authorization", "Bearer nope")

		recorder := serve(handler, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid or expired token")
	})
}

func TestLocaleHeader(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/health?lang=ar", nil))
	assert.Equal(t, "ar", recorder.Header().Get("Content-Language"))
}
