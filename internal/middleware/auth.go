package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hr-admin-api/internal/auth"
	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/service"
)

type contextKey string

const contextActorKey contextKey = "actor"

// Authenticate проверяет bearer-токен и кладёт вызывающего в контекст
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			actor := domain.Actor{UserID: claims.UserID, OrganizationID: claims.OrganizationID}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequirePermission пропускает запрос, только если роль вызывающего даёт
// действие action над модулем module в его организации
func RequirePermission(perms service.PermissionService, module domain.ModuleCode, action domain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			if !perms.Allowed(r.Context(), actor, actor.OrganizationID, module, action) {
				writeError(w, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin пропускает только супер-администраторов
func RequireSuperAdmin(perms service.PermissionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			if !perms.IsSuperAdmin(r.Context(), actor) {
				writeError(w, http.StatusForbidden, "super admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithActor возвращает контекст с вызывающим пользователем
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

// ActorFromContext достаёт вызывающего пользователя из контекста
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(contextActorKey).(domain.Actor)
	return actor, ok
}
