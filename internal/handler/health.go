package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/database"
)

// Health reports process liveness and whether storage is reachable.
// The endpoint answers 200 even while storage is down: the connect loop
// keeps retrying in the background and the process must stay up.
func Health(store *database.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		storage := "down"
		if store.Ready() {
			storage = "up"
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "storage": storage})
	}
}
