package transport

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/landing-api/application/admin"
	"github.com/muhammadheryan/landing-api/constant"
	utilsContext "github.com/muhammadheryan/landing-api/utils/context"
	"github.com/muhammadheryan/landing-api/utils/errors"
)

// AuthMiddleware returns a middleware that validates admin JWT sessions using AdminApp.
// Only the /admin surface is protected, and /admin/login stays open.
func AuthMiddleware(adminApp admin.AdminApp) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAdminPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			username, err := adminApp.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			ctx := utilsContext.WithAdmin(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isAdminPath defines which endpoints need an admin token
func isAdminPath(path string) bool {
	if path == "/admin/login" {
		return false
	}
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}
