package http

import (
	"context"
	"net/http"

	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

// SessionCookieName is the cookie carrying the form session ID
const SessionCookieName = "rosterform_session"

type sessionIDKey struct{}

// sessionMiddleware binds every request to a form session. A request without
// a usable session cookie gets a new session and the cookie is (re)issued.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var current types.SessionID
		if c, err := r.Cookie(SessionCookieName); err == nil {
			current = types.SessionID(c.Value)
		}

		sessionID, _, err := s.formUC.Open(r.Context(), current)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		if sessionID != current {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID.String(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
		ctx = logging.With(ctx, logging.From(ctx).With("session_id", sessionID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) types.SessionID {
	if sid, ok := ctx.Value(sessionIDKey{}).(types.SessionID); ok {
		return sid
	}
	return ""
}
