package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

type ScheduleRequestHandler struct {
	requests *ucSchedule.Requests
	log      zerolog.Logger
}

func NewScheduleRequestHandler(requests *ucSchedule.Requests, log zerolog.Logger) *ScheduleRequestHandler {
	return &ScheduleRequestHandler{requests: requests, log: log}
}

type SubmitScheduleRequest struct {
	Kind    string          `json:"kind" binding:"required,oneof=working_hours break day_off"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}

type RejectScheduleRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// Submit files a change request for the calling barber.
func (h *ScheduleRequestHandler) Submit(c *gin.Context) {
	var req SubmitScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	out, err := h.requests.Submit(c.Request.Context(), actor(c), ucSchedule.SubmitInput{
		Kind:    req.Kind,
		Payload: req.Payload,
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_submit_request", "Erro ao enviar solicitação.")
		return
	}
	httpresp.Created(c, out)
}

// List shows every request of the shop to owners and admins, and only their
// own to barbers.
func (h *ScheduleRequestHandler) List(c *gin.Context) {
	var barberID *uint
	role := userRole(c)
	if role != models.RoleOwner && role != models.RoleAdmin {
		self := userID(c)
		barberID = &self
	} else if id, ok := uintQuery(c, "barber_id"); ok {
		barberID = &id
	}

	reqs, err := h.requests.List(c.Request.Context(), barbershopID(c), barberID, c.Query("status"))
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_requests", "Erro ao listar solicitações.")
		return
	}
	httpresp.List(c, reqs)
}

func (h *ScheduleRequestHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	out, err := h.requests.Approve(c.Request.Context(), actor(c), id)
	if err != nil {
		writeError(c, h.log, err, "failed_to_approve_request", "Erro ao aprovar solicitação.")
		return
	}
	httpresp.OK(c, out)
}

func (h *ScheduleRequestHandler) Reject(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req RejectScheduleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Invalid(c, err)
			return
		}
	}

	out, err := h.requests.Reject(c.Request.Context(), actor(c), id, req.Reason)
	if err != nil {
		writeError(c, h.log, err, "failed_to_reject_request", "Erro ao rejeitar solicitação.")
		return
	}
	httpresp.OK(c, out)
}
