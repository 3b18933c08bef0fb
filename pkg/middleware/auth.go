package middleware

import (
	"net/http"
	"strings"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/response"
)

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header and attaches the resolved auth.Principal to the request context.
// Nothing downstream runs for a rejected request.
func Auth(signer *auth.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Unauthenticated(w, r)
				return
			}

			p, err := signer.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("auth: token rejected", "error", err)
				response.Unauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
