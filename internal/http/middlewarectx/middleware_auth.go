// Package middlewarectx содержит middleware аутентификации и ограничения
// частоты запросов, а также ключи контекста запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/repair-crm/internal/http/response"
	authjwt "github.com/magabrotheeeer/repair-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/repair-crm/internal/lib/sl"
)

// ContextKey тип ключей контекста запроса.
type ContextKey string

const (
	// User ключ контекста с именем аутентифицированного пользователя.
	User ContextKey = "username"
	// Role ключ контекста с ролью аутентифицированного пользователя.
	Role ContextKey = "role"
)

// JWTMiddleware проверяет Bearer-токен и кладет имя пользователя и роль
// в контекст запроса.
func JWTMiddleware(maker authjwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				log.Error("missing or malformed authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			claims, err := maker.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Error("failed to parse token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
