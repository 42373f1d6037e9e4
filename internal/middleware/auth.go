package middleware

import (
	"net/http"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/httputil"
	"github.com/postdeck/scheduler-server-go/internal/service"
)

// AuthMiddleware gates routes on the session's authenticated flag. There
// are no tokens or cookies to verify: authentication is presence of the
// login record, exactly the state the session service holds.
type AuthMiddleware struct {
	sessions *service.SessionService
}

func NewAuthMiddleware(sessions *service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.sessions.Current().Authenticated {
			httputil.WriteError(w, apperrors.Unauthorized("Login required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
