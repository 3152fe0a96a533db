// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgnest/pgnest/internal/platform/middleware"
	"github.com/pgnest/pgnest/internal/platform/sec"
)

// okHandler records whether it ran and which claims it saw.
type okHandler struct {
	ran    bool
	claims *sec.AuthClaims
}

func (h *okHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.ran = true
	h.claims = middleware.GetUser(request.Context())
	writer.WriteHeader(http.StatusOK)
}

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-secret-please-rotate", "pgnest.app")
	require.NoError(t, err)
	return service
}

/*
TestAuthenticate covers the header contract: absent headers pass through
anonymously, malformed headers are 401, and failed verification is 400.
*/
func TestAuthenticate(t *testing.T) {
	service := newTokenService(t)

	validToken, err := service.Issue("account-123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRan    bool
		wantClaims bool
	}{
		{name: "no header is anonymous pass-through", header: "", wantStatus: http.StatusOK, wantRan: true},
		{name: "valid bearer token", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantRan: true, wantClaims: true},
		{name: "missing scheme", header: validToken, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + validToken, wantStatus: http.StatusUnauthorized},
		{name: "empty token after scheme", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			downstream := &okHandler{}
			handler := middleware.Authenticate(service)(downstream)

			request := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tc.header != "" {
				request.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.Equal(t, tc.wantRan, downstream.ran)
			if tc.wantClaims {
				require.NotNil(t, downstream.claims)
				assert.Equal(t, "account-123", downstream.claims.AccountID)
			}
		})
	}
}

/*
TestRequireAuth checks that anonymous requests are blocked after the
Authenticate stage has run.
*/
func TestRequireAuth(t *testing.T) {
	service := newTokenService(t)

	t.Run("anonymous request is rejected", func(t *testing.T) {
		downstream := &okHandler{}
		handler := middleware.Authenticate(service)(middleware.RequireAuth(downstream))

		request := httptest.NewRequest(http.MethodGet, "/profile", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, downstream.ran)
	})

	t.Run("authenticated request passes", func(t *testing.T) {
		token, err := service.Issue("account-456")
		require.NoError(t, err)

		downstream := &okHandler{}
		handler := middleware.Authenticate(service)(middleware.RequireAuth(downstream))

		request := httptest.NewRequest(http.MethodGet, "/profile", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.True(t, downstream.ran)
		require.NotNil(t, downstream.claims)
		assert.Equal(t, "account-456", downstream.claims.AccountID)
	})
}
