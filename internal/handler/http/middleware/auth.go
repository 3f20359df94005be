package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
)

type principalKey struct{}

// Principal is the authenticated caller taken from the access token.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// AuthRequired rejects requests without a verified access token and stores
// the caller's Principal in the request context. It expects
// jwtauth.Verifier to run first.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !jwt.IsAccessToken(claims) {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		userID, ok := jwt.UserIDFromClaims(claims)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		ctx := WithPrincipal(r.Context(), Principal{UserID: userID, Email: email, Role: role})
		ctx = logger.With(ctx, "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}
