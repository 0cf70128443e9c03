package chart

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/dentio/internal/domain/history"
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
	read.GET("/clinics/:clinic_id/patients/:patient_id/dental-chart", h.GetChart)
	read.GET("/clinics/:clinic_id/patients/:patient_id/dental-chart/history", h.GetHistory)

	write := api.Group("", auth.RequireRole("admin", "dentist"))
	write.POST("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/condition", h.AddCondition)
	write.PATCH("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/condition/:condition_id", h.UpdateCondition)
	write.DELETE("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/condition/:condition_id", h.RemoveCondition)
	write.POST("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/procedure", h.AddProcedure)
	write.PATCH("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/procedure/:procedure_id", h.UpdateProcedure)
	write.DELETE("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/procedure/:procedure_id", h.RemoveProcedure)
	write.POST("/clinics/:clinic_id/patients/:patient_id/dental-chart/tooth/:tooth_number/procedure/:procedure_id/notes", h.AddProcedureNote)
}

// chartScope is the (clinic, patient, tooth) triple every chart route shares.
type chartScope struct {
	clinicID    uuid.UUID
	patientID   uuid.UUID
	toothNumber string
}

func scopeFromContext(c echo.Context) (chartScope, error) {
	var s chartScope
	var err error
	if s.clinicID, err = uuid.Parse(c.Param("clinic_id")); err != nil {
		return s, echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	if s.patientID, err = uuid.Parse(c.Param("patient_id")); err != nil {
		return s, echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	s.toothNumber = c.Param("tooth_number")
	return s, nil
}

func actorFromContext(c echo.Context) Actor {
	ctx := c.Request().Context()
	actor := Actor{Name: auth.UserNameFromContext(ctx)}
	if id, err := uuid.Parse(auth.UserIDFromContext(ctx)); err == nil {
		actor.ID = &id
	}
	return actor
}

func (h *Handler) GetChart(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	view, err := h.svc.GetChart(c.Request().Context(), s.clinicID, s.patientID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetHistory(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	f := history.Filter{
		ToothNumber: c.QueryParam("tooth_number"),
		Category:    c.QueryParam("category"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &t
	}
	items, total, err := h.svc.History(c.Request().Context(), s.clinicID, s.patientID, f, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddCondition(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	var in AddConditionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cond, err := h.svc.AddCondition(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, in, actorFromContext(c))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, cond)
}

func (h *Handler) UpdateCondition(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	conditionID, err := uuid.Parse(c.Param("condition_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid condition_id")
	}
	var in UpdateConditionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cond, err := h.svc.UpdateCondition(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, conditionID, in, actorFromContext(c))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, cond)
}

func (h *Handler) RemoveCondition(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	conditionID, err := uuid.Parse(c.Param("condition_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid condition_id")
	}
	if err := h.svc.RemoveCondition(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, conditionID, actorFromContext(c)); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddProcedure(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	var in AddProcedureInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	proc, err := h.svc.AddProcedure(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, in, actorFromContext(c))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, proc)
}

func (h *Handler) UpdateProcedure(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	procedureID, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	var in UpdateProcedureInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	proc, err := h.svc.UpdateProcedure(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, procedureID, in, actorFromContext(c))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, proc)
}

func (h *Handler) RemoveProcedure(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	procedureID, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	if err := h.svc.RemoveProcedure(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, procedureID, actorFromContext(c)); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddProcedureNote(c echo.Context) error {
	s, err := scopeFromContext(c)
	if err != nil {
		return err
	}
	procedureID, err := uuid.Parse(c.Param("procedure_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid procedure_id")
	}
	var in AddNoteInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	note, err := h.svc.AddProcedureNote(c.Request().Context(), s.clinicID, s.patientID,
		s.toothNumber, procedureID, in, actorFromContext(c))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, note)
}
