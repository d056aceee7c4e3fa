package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrValidation
	ErrRateLimited
	ErrInvalidCredential
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:           "success",
	ErrInternal:          "Internal server error. Please try again later or contact us directly.",
	ErrNotFound:          "data not found",
	ErrInvalidRequest:    "invalid request",
	ErrUnauthorize:       "unauthorize request",
	ErrValidation:        "Validation failed",
	ErrRateLimited:       "Too many requests. Please try again later.",
	ErrInvalidCredential: "username or password invalid",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:           http.StatusOK,
	ErrInternal:          http.StatusInternalServerError,
	ErrNotFound:          http.StatusNotFound,
	ErrInvalidRequest:    http.StatusBadRequest,
	ErrUnauthorize:       http.StatusUnauthorized,
	ErrValidation:        http.StatusBadRequest,
	ErrRateLimited:       http.StatusTooManyRequests,
	ErrInvalidCredential: http.StatusUnauthorized,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:           "0000",
	ErrInternal:          "0001",
	ErrNotFound:          "0002",
	ErrInvalidRequest:    "0003",
	ErrUnauthorize:       "0004",
	ErrValidation:        "0005",
	ErrRateLimited:       "0006",
	ErrInvalidCredential: "0007",
}
