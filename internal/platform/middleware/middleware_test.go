// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	"github.com/taibuivan/maktaba/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	t.Run("generates when missing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("keeps client value", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "abc-123")
		handler.ServeHTTP(httptest.NewRecorder(), request)
		assert.Equal(t, "abc-123", seen)
	})
}

func TestLocale(t *testing.T) {
	var seen locale.Locale
	handler := middleware.Locale()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetLocale(request.Context())
	}))

	tests := []struct {
		name   string
		target string
		header string
		want   locale.Locale
	}{
		{"query", "/books?lang=ar", "", locale.Arabic},
		{"header", "/books", "ar-EG,en;q=0.8", locale.Arabic},
		{"unsupported query", "/books?lang=fr", "", locale.English},
		{"default", "/books", "", locale.English},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				request.Header.Set("Accept-Language", tc.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tc.want, seen)
			assert.Equal(t, tc.want.String(), recorder.Header().Get("Content-Language"))
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 2)
	handler := limiter.Handler(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:5555"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

type devConfig bool

func (d devConfig) IsDevelopment() bool { return bool(d) }

func TestCORS(t *testing.T) {
	preflight := func(handler http.Handler, origin string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
		request.Header.Set("Origin", origin)
		request.Header.Set("Access-Control-Request-Method", http.MethodGet)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	production := middleware.CORS(devConfig(false), []string{"https://shop.example"})(okHandler)
	assert.Equal(t, "https://shop.example", preflight(production, "https://shop.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight(production, "https://evil.example").Header().Get("Access-Control-Allow-Origin"))

	development := middleware.CORS(devConfig(true), nil)(okHandler)
	assert.Equal(t, "http://localhost:3000", preflight(development, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (s stubVerifier) Verify(context.Context, string) (*sec.AuthClaims, error) {
	return s.claims, s.err
}

func TestAuthenticate(t *testing.T) {
	var seen *sec.AuthClaims
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	serve := func(verifier middleware.TokenVerifier, header string, protected bool) int {
		seen = nil
		var handler http.Handler = inner
		if protected {
			handler = middleware.RequireAuth(handler)
		}
		handler = middleware.Authenticate(verifier)(handler)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	valid := stubVerifier{claims: &sec.AuthClaims{UserID: "u1"}}

	assert.Equal(t, http.StatusOK, serve(valid, "", false))
	assert.Nil(t, seen)

	assert.Equal(t, http.StatusUnauthorized, serve(valid, "", true))

	assert.Equal(t, http.StatusOK, serve(valid, "Bearer token", true))
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)

	assert.Equal(t, http.StatusUnauthorized, serve(valid, "Basic abc", true))
	assert.Equal(t, http.StatusUnauthorized, serve(stubVerifier{err: errors.New("bad signature")}, "Bearer x", true))
	assert.Equal(t, http.StatusUnauthorized, serve(stubVerifier{err: apperr.Unauthorized("User not found")}, "Bearer x", false))
}
