package scheduling

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
	// Read endpoints – admin, physician, nurse, registrar
	readGroup := api.Group("", middleware.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/appointments/:id", h.GetAppointment)
	readGroup.GET("/doctors/:id/schedule", h.GetDoctorSchedule)
	readGroup.GET("/patients/:id/appointments", h.GetPatientAppointments)
	readGroup.GET("/availability", h.CheckAvailability)

	// Write endpoints – admin, registrar
	writeGroup := api.Group("", middleware.RequireRole("admin", "registrar"))
	writeGroup.POST("/appointments", h.ScheduleAppointment)
	writeGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
	writeGroup.POST("/appointments/:id/complete", h.CompleteAppointment)
	writeGroup.POST("/appointments/:id/no-show", h.MarkNoShow)
}

func (h *Handler) ScheduleAppointment(c echo.Context) error {
	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.ScheduleAppointment(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.CancelAppointment(c.Request().Context(), id, body.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) CompleteAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body struct {
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.CompleteAppointment(c.Request().Context(), id, body.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) MarkNoShow(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.MarkNoShow(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) GetDoctorSchedule(c echo.Context) error {
	doctorID, err := paramID(c)
	if err != nil {
		return err
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}
	items, err := h.svc.GetDoctorSchedule(c.Request().Context(), doctorID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetPatientAppointments(c echo.Context) error {
	patientID, err := paramID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.GetPatientAppointments(c.Request().Context(), patientID)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	doctorID, err := strconv.ParseInt(c.QueryParam("doctor_id"), 10, 64)
	if err != nil || doctorID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	start, err := queryTime(c, "start_time")
	if err != nil {
		return err
	}
	duration, err := strconv.Atoi(c.QueryParam("duration_minutes"))
	if err != nil || duration <= 0 || duration > MaxDurationMinutes {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid duration_minutes")
	}
	res, err := h.svc.CheckAvailability(c.Request().Context(), doctorID, start, duration)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.QueryParam(name))
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return t, nil
}

// writeError maps domain errors to HTTP responses: validation failures to
// 400, missing rows to 404, rule violations to 409, store failures to 503.
func writeError(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": ve.Field, "message": ve.Msg})
	}
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "resource not found"})
	}
	var re *RuleError
	if errors.As(err, &re) {
		return c.JSON(http.StatusConflict, echo.Map{"error": string(re.Reason), "message": re.Msg})
	}
	var ie *InfraError
	if errors.As(err, &ie) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable", "message": "temporary storage failure"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": err.Error()})
}
