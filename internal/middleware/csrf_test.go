package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klse-analytics/portal/shared/csrf"
)

func TestGenerateCSRFToken(t *testing.T) {
	var token string
	handler := GenerateCSRFToken(CSRFConfig{MaxAge: time.Hour})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token = GetCSRFTokenFromContext(r)
		}),
	)

	t.Run("issues a token cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.NotEmpty(t, token)
		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "csrf_token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, token, cookie.Value)
		assert.Equal(t, 3600, cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("reuses an existing cookie", func(t *testing.T) {
		kept := newToken(t)
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: kept})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, kept, token)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "kept"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.NotEqual(t, "kept", token)
		require.Len(t, w.Result().Cookies(), 1)
		assert.Equal(t, token, w.Result().Cookies()[0].Value)
	})
}

func newToken(t *testing.T) string {
	t.Helper()
	token, err := csrf.GenerateToken()
	require.NoError(t, err)
	return token
}

func TestValidateCSRFToken(t *testing.T) {
	token := newToken(t)

	tests := []struct {
		name           string
		method         string
		cookie         *http.Cookie
		formToken      string
		expectedStatus int
	}{
		{"valid POST request", "POST", &http.Cookie{Name: "csrf_token", Value: token}, token, http.StatusOK},
		{"GET request (no validation)", "GET", nil, "", http.StatusOK},
		{"missing cookie", "POST", nil, token, http.StatusForbidden},
		{"missing form token", "POST", &http.Cookie{Name: "csrf_token", Value: token}, "", http.StatusForbidden},
		{"mismatched tokens", "POST", &http.Cookie{Name: "csrf_token", Value: token}, "different-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ValidateCSRFToken()(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}),
			)

			form := url.Values{}
			if tt.formToken != "" {
				form.Set("csrf_token", tt.formToken)
			}

			req := httptest.NewRequest(tt.method, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestValidateCSRFTokenQueryIgnored(t *testing.T) {
	handler := ValidateCSRFToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	token := newToken(t)
	req := httptest.NewRequest("POST", "/?csrf_token="+token, strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code, "token must come from the body")
}
