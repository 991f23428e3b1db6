package middleware

import (
	"errors"
	"net/http"

	"github.com/edlawit/travel-booking-api/internal/dto"
	"github.com/edlawit/travel-booking-api/internal/gateway"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error that escapes a handler as a
// dto.ErrorResponse. Gateway initialization failures additionally carry the
// provider's raw detail payload so clients can see why the provider refused.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: err.Error()}

	var he *echo.HTTPError
	var initErr *gateway.InitializationError

	switch {
	case errors.As(err, &initErr):
		code = http.StatusBadRequest
		resp.Message = "payment initialization failed"
		resp.Details = initErr.Detail
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			resp.Message = m
		}
	}

	_ = c.JSON(code, resp)
}
