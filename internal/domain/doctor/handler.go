package doctor

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
	// Read endpoints – admin, physician, nurse, registrar
	readGroup := api.Group("", middleware.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/doctors", h.List)
	readGroup.GET("/doctors/:id", h.Get)

	// Write endpoints – admin
	writeGroup := api.Group("", middleware.RequireRole("admin"))
	writeGroup.POST("/doctors", h.Register)
	writeGroup.PUT("/doctors/:id", h.Update)
	writeGroup.POST("/doctors/:id/deactivate", h.Deactivate)
}

func (h *Handler) Register(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &d); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if spec := c.QueryParam("specialization"); spec != "" {
		items, total, err := h.svc.ListBySpecialization(c.Request().Context(), spec, pg.Limit, pg.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if lic := c.QueryParam("license_number"); lic != "" {
		d, err := h.svc.GetByLicense(c.Request().Context(), lic)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse([]*Doctor{d}, 1, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListActive(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Deactivate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func writeError(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": ve.Field, "message": ve.Msg})
	}
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "doctor not found"})
	}
	if errors.Is(err, ErrDuplicateLicense) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_license", "message": "license number already registered"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": err.Error()})
}
