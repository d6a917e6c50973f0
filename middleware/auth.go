package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const claimsContextKey contextKey = "jwtClaims"

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var (
	ErrNoToken        = errors.New("authorization token is missing")
	ErrInvalidToken   = errors.New("authorization token is invalid")
	ErrClaimsMissing  = errors.New("token claims are missing from context")
	ErrClaimInvalid   = errors.New("token claim has an unexpected type")
	ErrRoleForbidden  = errors.New("role is not allowed to perform this action")
	errUnexpectedSign = errors.New("unexpected token signing method")
)

// Authenticator validates bearer tokens and stores their claims in the
// request context.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate requires a valid HS256 bearer token on the request.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, ErrNoToken.Error())
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errUnexpectedSign
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			writeAuthError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize allows the request through only when the token role matches one
// of the given roles. Must run after Authenticate.
func (a *Authenticator) Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, err.Error())
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, ErrRoleForbidden.Error())
		})
	}
}

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrClaimsMissing
	}
	return claims, nil
}

// GetUserIDFromContext extracts the authenticated user id placed into the
// context by Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	// JSON numbers unmarshal as float64.
	raw, ok := claims[jwtClaimUserID].(float64)
	if !ok {
		return 0, ErrClaimInvalid
	}
	return int(raw), nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	role, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", ErrClaimInvalid
	}
	return role, nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error": "` + message + `"}`))
}
