package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the user id stored in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// BearerPrefix is stripped from the Authorization header value. The strip is
// an exact textual match: "bearer x" or "Bearer:x" is not recognized, the
// whole value is then treated as the token and fails validation.
const BearerPrefix = "Bearer "

// AuthFailureRecorder receives a signal for every rejected request so the
// metrics layer can count them. Implemented by metrics.Collector.
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// RequireAuth enforces authentication on the task routes.
//
// It reads the Authorization header, strips the "Bearer " prefix, validates
// the token and stores the numeric user id in the request context. Failure
// modes are deliberately distinct:
//
//   - no Authorization header at all: 400, the request is malformed
//   - header present but the token is invalid, expired, or carries a
//     non-numeric uid: 401
//
// Whether the user id actually exists in the directory is not checked here;
// the service layer does that and reports it as a 400-class unknown-user
// error, keeping malformed identity and unrecognized identity separate.
func RequireAuth(tokens *TokenService, failures AuthFailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				failures.RecordAuthFailure("missing_header")
				writeAuthError(w, http.StatusBadRequest, "validation_error", "authorization header required")
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, BearerPrefix))
			if err != nil {
				failures.RecordAuthFailure("invalid_token")
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				failures.RecordAuthFailure("bad_subject")
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context. The second return is false on anonymous requests, which can only
// happen on routes not wrapped by RequireAuth.
func UserIDFromContext(ctx context.Context) (uint32, bool) {
	id, ok := ctx.Value(userIDKey).(uint32)
	return id, ok
}

// ContextWithUserID returns a context carrying the given user id. Used by
// handler tests to simulate an authenticated request.
func ContextWithUserID(ctx context.Context, id uint32) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// writeAuthError emits the same JSON error shape the handlers use. The
// middleware cannot import the handler package (the handler imports this
// one), so the body is written inline.
func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
