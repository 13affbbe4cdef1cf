package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

// ScheduleHandler serves working hours, breaks and days off. Reads are open
// to the barber concerned; writes are mounted behind RequireStaffAdmin.
type ScheduleHandler struct {
	manage *ucSchedule.Manage
	log    zerolog.Logger
}

func NewScheduleHandler(manage *ucSchedule.Manage, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{manage: manage, log: log}
}

func actor(c *gin.Context) ucSchedule.Actor {
	return ucSchedule.Actor{
		BarbershopID: barbershopID(c),
		UserID:       userID(c),
		RequestID:    middleware.RequestID(c),
	}
}

// pathBarber reads :barberID; "me" or a missing param means the caller.
func pathBarber(c *gin.Context) (uint, bool) {
	raw := c.Param("barberID")
	if raw == "" || raw == "me" {
		return userID(c), true
	}
	id, ok := uintParam(c, "barberID")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return 0, false
	}
	return targetBarber(c, id)
}

// ======================================================
// WORKING HOURS
// ======================================================

func (h *ScheduleHandler) GetWorkingHours(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	hours, err := h.manage.ListWorkingHours(c.Request.Context(), barbershopID(c), barberID)
	if err != nil {
		writeError(c, h.log, err, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}
	httpresp.List(c, hours)
}

func (h *ScheduleHandler) ReplaceWorkingHours(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	var req domain.WorkingHoursPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	if err := h.manage.ReplaceWorkingHours(c.Request.Context(), actor(c), barberID, req); err != nil {
		writeError(c, h.log, err, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// BREAKS
// ======================================================

func (h *ScheduleHandler) ListBreaks(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	breaks, err := h.manage.ListBreaks(c.Request.Context(), barbershopID(c), barberID)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_breaks", "Erro ao listar pausas.")
		return
	}
	httpresp.List(c, breaks)
}

func (h *ScheduleHandler) CreateBreak(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	var req domain.BreakPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	b, err := h.manage.CreateBreak(c.Request.Context(), actor(c), barberID, req)
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_break", "Erro ao criar pausa.")
		return
	}
	httpresp.Created(c, b)
}

func (h *ScheduleHandler) DeleteBreak(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if err := h.manage.DeleteBreak(c.Request.Context(), actor(c), barberID, id); err != nil {
		writeError(c, h.log, err, "failed_to_delete_break", "Erro ao remover pausa.")
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// DAYS OFF
// ======================================================

func (h *ScheduleHandler) ListDaysOff(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	var from, to calendar.Date
	var err error
	if s := c.Query("from"); s != "" {
		if from, err = calendar.ParseDate(s); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = calendar.ParseDate(s); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
	}

	days, err := h.manage.ListDaysOff(c.Request.Context(), barbershopID(c), barberID, from, to)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_days_off", "Erro ao listar folgas.")
		return
	}
	httpresp.List(c, days)
}

func (h *ScheduleHandler) CreateDayOff(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}

	var req domain.DayOffPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	d, err := h.manage.CreateDayOff(c.Request.Context(), actor(c), barberID, req)
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_day_off", "Erro ao criar folga.")
		return
	}
	httpresp.Created(c, d)
}

func (h *ScheduleHandler) DeleteDayOff(c *gin.Context) {
	barberID, ok := pathBarber(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if err := h.manage.DeleteDayOff(c.Request.Context(), actor(c), barberID, id); err != nil {
		writeError(c, h.log, err, "failed_to_delete_day_off", "Erro ao remover folga.")
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}
