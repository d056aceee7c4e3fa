package transport

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic in a handler into a 500 that still gives
// the visitor a way to reach the office.
func RecoveryMiddleware(fallbackEmail string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("[RecoveryMiddleware] panic",
						zap.String("path", r.URL.Path),
						zap.String("error", fmt.Sprint(rec)),
						zap.Stack("stack"),
					)
					writeError(w, errors.SetInternalError(fallbackEmail))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
