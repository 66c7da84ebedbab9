package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/requestcontext"
)

// ActorClaims are the token claims the records core consumes. Issuance lives
// outside this system; we only validate and translate into a domain actor.
type ActorClaims struct {
	UserID   string
	Role     string
	Username string
}

// TokenValidator validates a bearer token and returns the actor claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*ActorClaims, error)
}

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token and injects the
// resulting actor into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := authenticate(w, r, validator, logger)
			if !ok {
				return
			}
			if actor == nil {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth authenticates when a bearer token is present and passes the
// request through anonymously when it is absent. A token that is present but
// invalid is still rejected; it never silently downgrades to anonymous.
func OptionalAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := authenticate(w, r, validator, logger)
			if !ok {
				return
			}
			ctx := r.Context()
			if actor != nil {
				ctx = requestcontext.WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate parses the Authorization header. Returns (nil, true) when no
// token was supplied, (actor, true) on success, and (nil, false) after it has
// already written a 401 for an invalid token.
func authenticate(w http.ResponseWriter, r *http.Request, validator TokenValidator, logger *slog.Logger) (*id.Actor, bool) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok {
		return nil, true
	}

	ctx := r.Context()
	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.WarnContext(ctx, "unauthorized access - invalid token",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeUnauthorized(w, "Invalid or expired token")
		return nil, false
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		logger.WarnContext(ctx, "unauthorized access - malformed subject",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeUnauthorized(w, "Invalid or expired token")
		return nil, false
	}

	return &id.Actor{
		ID:       userID,
		Role:     id.Role(claims.Role),
		Username: claims.Username,
	}, true
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
