package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionHeader carries the session ID for API clients.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session ID for browsers.
	SessionCookie = "motoblog_session"

	sessionMaxAge = 365 * 24 * time.Hour
)

type sessionKey struct{}

type session struct {
	id string
	// carried is true when the client sent the ID rather than having it issued now.
	carried bool
}

// sessions resolves the request's session from the header or cookie, issuing a new
// cookie when there is neither.
func (s *Server) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session{carried: true}
		if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
			sess.id = id
		} else if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			sess.id = c.Value
		} else {
			sess = session{id: uuid.NewString()}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.id,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(ctx context.Context) (session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(session)
	return sess, ok && sess.id != ""
}
