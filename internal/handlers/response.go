package handlers

import (
	"strconv"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeFailure logs err and answers with {success:false, error}. Untyped
// errors are reported with fallback so internals do not leak.
func writeFailure(c echo.Context, log *zap.Logger, err error, fallback string, fields ...zap.Field) error {
	status := apperrors.HTTPStatus(err)
	fields = append(fields, zap.String("path", c.Path()), zap.Error(err))
	if status >= 500 {
		log.Error(fallback, fields...)
	} else {
		log.Debug(fallback, fields...)
	}
	return c.JSON(status, echo.Map{"success": false, "error": apperrors.PublicMessage(err, fallback)})
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Invalid("", "Invalid request payload")
	}
	return c.Validate(req)
}

func queryLimit(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// postPage renders a feed page in the {posts, nextCursor} shape.
func postPage(page services.Page[models.PostView]) echo.Map {
	if page.Items == nil {
		page.Items = []models.PostView{}
	}
	return echo.Map{"posts": page.Items, "nextCursor": page.NextCursor}
}
