package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
)

// respondError translates a domain error into the transport envelope.
func respondError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
