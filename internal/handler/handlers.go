// Package handler implements the HTTP boundary.  Handlers bind and
// validate request bodies, pull the verified actor from the context
// and delegate to the core services; no roster or ledger logic lives
// here.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/face"
	"github.com/iliyamo/school-attendance/internal/store"
)

// validate is the shared request validator.
var validate = validator.New()

// requestTimeout bounds how long one handler may hold a request while
// talking to the persister or the face sidecar.
const requestTimeoutSeconds = 10

// writeError maps core errors onto HTTP responses.  The wrapped reason
// string travels to the client unchanged so the UI can show why.
func writeError(c echo.Context, err error) error {
	var partial *store.PartialCascadeError
	switch {
	case errors.As(err, &partial):
		steps := make([]string, 0, len(partial.Completed))
		for _, s := range partial.Completed {
			steps = append(steps, string(s))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":           partial.Error(),
			"completed_steps": steps,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateName), errors.Is(err, store.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, face.ErrInvalidImage),
		errors.Is(err, face.ErrNoFace),
		errors.Is(err, face.ErrMultipleFaces),
		errors.Is(err, face.ErrNotRegistered):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
