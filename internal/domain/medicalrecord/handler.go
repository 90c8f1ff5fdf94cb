package medicalrecord

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hospitalnet/hospitalnet/internal/platform/middleware"
	"github.com/hospitalnet/hospitalnet/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – admin, physician, nurse
	readGroup := api.Group("", middleware.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/medical-records", h.List)
	readGroup.GET("/medical-records/:id", h.Get)
	readGroup.GET("/medical-records/follow-ups", h.ListFollowUps)

	// Write endpoints – admin, physician
	writeGroup := api.Group("", middleware.RequireRole("admin", "physician"))
	writeGroup.POST("/medical-records", h.Record)
	writeGroup.PUT("/medical-records/:id", h.Update)
}

func (h *Handler) Record(c echo.Context) error {
	var rec MedicalRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Record(c.Request().Context(), &rec); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("appointment_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment_id")
		}
		rec, err := h.svc.GetByAppointment(ctx, id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(ctx, id, pg.Limit, pg.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		items, total, err := h.svc.ListByDoctor(ctx, id, pg.Limit, pg.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "appointment_id, patient_id or doctor_id query parameter required")
}

func (h *Handler) ListFollowUps(c echo.Context) error {
	pg := pagination.FromContext(c)
	overdueOnly := c.QueryParam("overdue") == "true"
	items, total, err := h.svc.ListFollowUps(c.Request().Context(), overdueOnly, pg.Limit, pg.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var rec MedicalRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.ID = id
	if err := h.svc.Update(c.Request().Context(), &rec); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func writeError(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": ve.Field, "message": ve.Msg})
	}
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "medical record not found"})
	}
	if errors.Is(err, ErrDuplicateRecord) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_record", "message": "appointment already documented"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": err.Error()})
}
