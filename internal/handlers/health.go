package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheck reports liveness and whether the database answers.
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := http.StatusOK
		database := "up"
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			database = "down"
		}
		return c.JSON(status, map[string]string{
			"status":   http.StatusText(status),
			"service":  "pigstar-api",
			"database": database,
		})
	}
}
