package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName identifies a browser's quiz session.
const CookieName = "quizgen_session"

type userKey struct{}

// sessionCookie makes sure every API request carries a user id, issuing a
// new random one when the cookie is absent or malformed.
func (s *Server) sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if u, err := uuid.Parse(c.Value); err == nil {
				id = u.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(s.opts.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), userKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the user id set by sessionCookie.
func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
