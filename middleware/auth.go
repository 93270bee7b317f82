package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/papycha/duocup/auth"
)

type contextKey string

const actorContextKey contextKey = "actor"

const (
	jwtClaimUserID = "user_id"
	jwtClaimRoles  = "roles"
)

// Authenticate verifies the gateway's HS256 bearer token and stows the
// acting chat user in the request context. The gateway signs one token per
// forwarded interaction, carrying the interacting user's id and role ids.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			actor, err := actorFromClaims(claims)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFromClaims(claims jwt.MapClaims) (auth.Actor, error) {
	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return auth.Actor{}, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	userID, ok := userIDClaim.(string)
	if !ok || userID == "" {
		return auth.Actor{}, fmt.Errorf("invalid %q claim: expected non-empty string, got %T", jwtClaimUserID, userIDClaim)
	}

	actor := auth.Actor{UserID: userID}

	if rolesClaim, ok := claims[jwtClaimRoles]; ok {
		list, ok := rolesClaim.([]interface{})
		if !ok {
			return auth.Actor{}, fmt.Errorf("invalid %q claim: expected array, got %T", jwtClaimRoles, rolesClaim)
		}
		for _, item := range list {
			role, ok := item.(string)
			if !ok {
				return auth.Actor{}, fmt.Errorf("invalid role entry in %q claim: %T", jwtClaimRoles, item)
			}
			actor.RoleIDs = append(actor.RoleIDs, role)
		}
	}

	return actor, nil
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(ctx context.Context) (auth.Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(auth.Actor)
	if !ok {
		return auth.Actor{}, errors.New("actor not found in context")
	}
	return actor, nil
}
