package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shinshu-solutions/shinshu-web/internal/platform/httpx"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// RequireUser resolves the session cookie and stores the user view in the
// request context. Requests without a valid session get a 401; storage
// failures surface as 500 rather than masquerading as rejections.
func RequireUser(sessions *SessionManager, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Not Authenticated", "")
				return
			}
			user, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, shared.ErrNotAuthenticated) {
					httpx.Problem(w, http.StatusUnauthorized, "Not Authenticated", "")
					return
				}
				logger.Error("resolve session", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithUser(r.Context(), user)))
		})
	}
}
