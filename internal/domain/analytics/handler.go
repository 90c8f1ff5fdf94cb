package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalnet/hospitalnet/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Analytics is admin-only.
	group := api.Group("", middleware.RequireRole("admin"))
	group.GET("/analytics/appointments", h.AppointmentStatistics)
	group.GET("/analytics/doctors", h.DoctorPerformance)
	group.GET("/analytics/specializations", h.SpecializationStatistics)
	group.GET("/analytics/hourly-load", h.HourlyLoad)
}

func (h *Handler) AppointmentStatistics(c echo.Context) error {
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to")
	}
	stats, err := h.svc.AppointmentStatistics(c.Request().Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) DoctorPerformance(c echo.Context) error {
	var doctorID int64
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		doctorID = id
	}
	items, err := h.svc.DoctorPerformance(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SpecializationStatistics(c echo.Context) error {
	items, err := h.svc.SpecializationStatistics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) HourlyLoad(c echo.Context) error {
	items, err := h.svc.HourlyLoad(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
