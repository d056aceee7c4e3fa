package transport

import (
	"encoding/json"
	stdErrors "errors"
	"math"
	"net/http"
	"strconv"

	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
	"github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("[writeJSON] err encode", zap.String("error", err.Error()))
	}
}

func writeSuccess(w http.ResponseWriter, body interface{}) {
	writeJSON(w, http.StatusOK, body)
}

// writeError renders err as {success:false, error, details?, retryAfter?,
// fallbackEmail?}. Errors that are not a CustomError become ErrInternal.
func writeError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stdErrors.As(err, &ce) {
		logger.Error("[writeError] unexpected error", zap.String("error", err.Error()))
		ce = errors.SetCustomError(constant.ErrInternal)
	}

	res := model.ContactResponse{
		Success:       false,
		Error:         ce.Error(),
		Details:       ce.Details(),
		FallbackEmail: ce.FallbackEmail(),
	}
	if ce.Type() == constant.ErrRateLimited {
		secs := retryAfterSeconds(ce)
		res.RetryAfter = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	writeJSON(w, ce.ErrorHTTPCode(), res)
}

// writeError renders err for a handler. Every internal error, including a
// plain error from below, carries the fallback address.
func (s *RestHandler) writeError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stdErrors.As(err, &ce) {
		logger.Error("[writeError] unexpected error", zap.String("error", err.Error()))
		ce = errors.SetInternalError(s.FallbackEmail)
	}
	if ce.Type() == constant.ErrInternal && ce.FallbackEmail() == "" {
		ce = errors.SetInternalError(s.FallbackEmail)
	}
	writeError(w, ce)
}

// retryAfterSeconds rounds up so clients never retry too early.
func retryAfterSeconds(ce errors.CustomError) int {
	secs := int(math.Ceil(ce.RetryAfter().Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
