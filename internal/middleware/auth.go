package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/model"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticate returns middleware that verifies the session token in the
// Authorization header. Both "Bearer <token>" and a bare token are accepted.
// The identity in the token is trusted as signed; it is not re-read from storage.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeJSONMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected",
					"request_id", RequestIDFromContext(r.Context()), "reason", err)
				writeJSONMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), claims.Data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	fields := strings.Fields(header)
	switch {
	case len(fields) == 1 && fields[0] != "Bearer":
		return fields[0]
	case len(fields) == 2 && fields[0] == "Bearer":
		return fields[1]
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}

func writeJSONMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
