package errors

import (
	"time"

	"github.com/muhammadheryan/landing-api/constant"
)

type CustomError struct {
	errType       constant.ErrorType
	details       []string
	retryAfter    time.Duration
	fallbackEmail string
}

func (c CustomError) Error() string {
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func (c CustomError) Type() constant.ErrorType {
	return c.errType
}

// Details lists every violated rule of a validation failure.
func (c CustomError) Details() []string {
	return c.details
}

func (c CustomError) RetryAfter() time.Duration {
	return c.retryAfter
}

func (c CustomError) FallbackEmail() string {
	return c.fallbackEmail
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

func SetValidationError(details []string) CustomError {
	return CustomError{
		errType: constant.ErrValidation,
		details: details,
	}
}

func SetRateLimitError(retryAfter time.Duration) CustomError {
	return CustomError{
		errType:    constant.ErrRateLimited,
		retryAfter: retryAfter,
	}
}

// SetInternalError builds an ErrInternal that points the visitor to a human contact.
func SetInternalError(fallbackEmail string) CustomError {
	return CustomError{
		errType:       constant.ErrInternal,
		fallbackEmail: fallbackEmail,
	}
}
