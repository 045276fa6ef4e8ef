package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/klse-analytics/portal/internal/session"
)

const sessionCookieName = "portal_session"

type sessionContextKey string

const sessionKey sessionContextKey = "session"

// SessionStore is the part of session.Store the middleware needs.
type SessionStore interface {
	Get(id string) (*session.Session, bool)
	Create() *session.Session
	Transient() *session.Session
}

// LoadSession attaches the visitor's session to the request. When the
// cookie is missing, malformed or expired, safe methods get an unsaved
// session and no cookie; the first form post stores one and sets the
// cookie. The cookie has no Max-Age: it lives as long as the browser
// session does.
func LoadSession(store SessionStore, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sess, _ = store.Get(cookie.Value)
				}
			}

			switch {
			case sess != nil:
			case isSafeMethod(r.Method):
				sess = store.Transient()
			default:
				sess = store.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// GetSessionFromContext returns the session LoadSession attached, or nil.
func GetSessionFromContext(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}

// WithSession returns a copy of r carrying sess. Used by handler tests.
func WithSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
}
