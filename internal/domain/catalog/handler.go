package catalog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/dentio/internal/platform/apperr"
	"github.com/dentio/dentio/internal/platform/auth"
	"github.com/dentio/dentio/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "dentist", "assistant"))
	read.GET("/clinics/:clinic_id/dental-conditions", h.ListConditions)
	read.GET("/clinics/:clinic_id/dental-procedures", h.ListProcedures)

	write := api.Group("", auth.RequireRole("admin", "dentist"))
	write.POST("/clinics/:clinic_id/dental-conditions", h.CreateCondition)
	write.POST("/clinics/:clinic_id/dental-procedures", h.CreateProcedure)
}

func (h *Handler) ListConditions(c echo.Context) error {
	clinicID, err := uuid.Parse(c.Param("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	pg := pagination.FromContext(c)
	f := ConditionFilter{Search: c.QueryParam("search")}
	items, total, err := h.svc.ListConditions(c.Request().Context(), clinicID, f, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateCondition(c echo.Context) error {
	clinicID, err := uuid.Parse(c.Param("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	var cond Condition
	if err := c.Bind(&cond); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cond.ClinicID = clinicID
	if err := h.svc.CreateCondition(c.Request().Context(), &cond); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, cond)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	clinicID, err := uuid.Parse(c.Param("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	pg := pagination.FromContext(c)
	f := ProcedureFilter{Search: c.QueryParam("search"), Category: c.QueryParam("category")}
	items, total, err := h.svc.ListProcedures(c.Request().Context(), clinicID, f, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateProcedure(c echo.Context) error {
	clinicID, err := uuid.Parse(c.Param("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	var proc Procedure
	if err := c.Bind(&proc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	proc.ClinicID = clinicID
	if err := h.svc.CreateProcedure(c.Request().Context(), &proc); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, proc)
}
