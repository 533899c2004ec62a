package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, queries.ErrCourierNotFound),
		errors.Is(err, queries.ErrPackageNotFound),
		errors.Is(err, commands.ErrCourierNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, commands.ErrEmailAlreadyTaken),
		errors.Is(err, commands.ErrPhoneAlreadyTaken),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, parcel.ErrInvalidTransition),
		errors.Is(err, courier.ErrInvalidStatusTransition),
		errors.Is(err, courier.ErrCourierNotAvailable),
		errors.Is(err, courier.ErrCourierArchived),
		errors.Is(err, courier.ErrCourierHasActivePackages),
		errors.Is(err, courier.ErrAtFullCapacity),
		errors.Is(err, commands.ErrCourierNotAvailable),
		errors.Is(err, commands.ErrCourierNotAssigned),
		errors.Is(err, commands.ErrAlreadyPickedUp),
		errors.Is(err, commands.ErrAlreadyDelivered):
		return http.StatusConflict
	case errors.Is(err, commands.ErrNoAvailableCourier),
		errors.Is(err, services.ErrNoSuitableCourier),
		errors.Is(err, services.ErrInvalidAssignment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, queries.ErrEmptyBatch),
		errors.Is(err, queries.ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		message = http.StatusText(code)
	}
	return c.JSON(code, ErrorResponse{Code: code, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}

const maxConflictRetries = 3

// retryOnConflict re-runs op while it fails with a version conflict. Every
// attempt reloads the aggregates, so a retry sees the winner's state.
func retryOnConflict(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !errors.Is(err, errs.ErrVersionConflict) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxConflictRetries), ctx))
}
