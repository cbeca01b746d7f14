package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

type contextKey string

const userCtxKey contextKey = "user"

// UserResolver loads the current user for a set of verified token claims.
type UserResolver interface {
	CurrentUser(ctx context.Context, claims map[string]interface{}) (*model.User, error)
}

// Authenticator requires a token verified by jwtauth.Verifier and stores the
// user's current record in the request context.
func Authenticator(users UserResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := users.CurrentUser(r.Context(), claims)
			if err != nil {
				common.RespondWithServiceError(w, r, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects users whose current role is not listed.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondWithError(w, http.StatusForbidden, common.MessageFromError(common.ErrForbidden))
		})
	}
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok && user != nil
}
