package generalprocedure

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
	read.GET("/clinics/:clinic_id/patients/:patient_id/procedures", h.List)
	read.GET("/clinics/:clinic_id/patients/:patient_id/procedures/:procedure_id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "dentist"))
	write.POST("/clinics/:clinic_id/patients/:patient_id/procedures", h.Create)
	write.PATCH("/clinics/:clinic_id/patients/:patient_id/procedures/:procedure_id", h.Update)
	write.DELETE("/clinics/:clinic_id/patients/:patient_id/procedures/:procedure_id", h.Delete)
}

type scope struct {
	clinicID  uuid.UUID
	patientID uuid.UUID
}

func scopeFromContext(c echo.Context) (scope, error) {
	var s scope
	var err error
	if s.clinicID, err = uuid.Parse(c.Param("clinic_id")); err != nil {
		return s, echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	if s.patientID, err = uuid.Parse(c.Param("patient_id")); err != nil {
		return s, echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	return s, nil
}

func (h *Handler) Create(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	g, err := h.svc.Create(c.Request().Context(), s.clinicID, s.patientID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *Handler) Get(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	g, err := h.svc.Get(c.Request().Context(), s.clinicID, s.patientID, id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) List(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	f := Filter{Status: c.QueryParam("status")}
	items, total, err := h.svc.List(c.Request().Context(), s.clinicID, s.patientID, f, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	g, err := h.svc.Update(c.Request().Context(), s.clinicID, s.patientID, id, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) Delete(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	if err := h.svc.Delete(c.Request().Context(), s.clinicID, s.patientID, id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
