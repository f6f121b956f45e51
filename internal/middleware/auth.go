package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// UserClaims is the token payload that identifies a message author.
type UserClaims struct {
	jwt.RegisteredClaims
	Fullname string `json:"fullname"`
	ImgURL   string `json:"imgUrl"`
}

// NewAuthenticator returns a middleware that verifies HS256 bearer tokens
// signed with secret. A valid token places the caller's domain.MiniUser in the
// request context. Requests without an Authorization header pass through
// anonymously; a malformed or invalid token is rejected with 401.
func NewAuthenticator(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			claims := &UserClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !parsed.Valid || claims.Subject == "" {
				unauthorized(w, "invalid token")
				return
			}

			user := domain.MiniUser{ID: claims.Subject, Fullname: claims.Fullname, ImgURL: claims.ImgURL}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user. The access log of the
// enclosing request, if any, records the user ID.
func WithUser(ctx context.Context, user domain.MiniUser) context.Context {
	if entry, ok := ctx.Value(accessKey{}).(*accessEntry); ok {
		entry.userID = user.ID
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (domain.MiniUser, bool) {
	user, ok := ctx.Value(userKey).(domain.MiniUser)
	return user, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"err":"` + msg + `"}`))
}
