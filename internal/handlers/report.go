package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ooad/textile-shop/internal/service/report"
)

type ReportHandler struct {
	Service *report.Service
}

// Dashboard serves the admin landing numbers: sales per calendar window and
// the low-stock shortlist.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	snapshot, err := h.Service.Snapshot(time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snapshot)
}
