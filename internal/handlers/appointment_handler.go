package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	cancel       *ucAppointment.CancelAppointment
	complete     *ucAppointment.CompleteAppointment
	list         *ucAppointment.ListAppointments
	log          zerolog.Logger
}

func NewAppointmentHandler(
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	list *ucAppointment.ListAppointments,
	log zerolog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		cancel:       cancel,
		complete:     complete,
		list:         list,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id"`
	ClientName  string `json:"client_name" binding:"required,max=100"`
	ClientPhone string `json:"client_phone" binding:"required,max=20"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Date        string `json:"date" binding:"required,ymd"`
	Time        string `json:"time" binding:"required,hhmm"`
	Notes       string `json:"notes" binding:"max=255"`
}

// targetBarber resolves whose agenda a staff request acts on. Barbers only
// reach their own; owners and admins may name any barber of the shop.
func targetBarber(c *gin.Context, requested uint) (uint, bool) {
	self := userID(c)
	if requested == 0 || requested == self {
		return self, true
	}

	role := userRole(c)
	if role != models.RoleOwner && role != models.RoleAdmin {
		httperr.Forbidden(c, "forbidden", "Sem permissão para acessar a agenda de outro barbeiro.")
		return 0, false
	}
	return requested, true
}

func displayStep(c *gin.Context) (time.Duration, bool) {
	s := c.Query("step")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 240 {
		httperr.BadRequest(c, "invalid_step", "Intervalo de exibição inválido.")
		return 0, false
	}
	return time.Duration(n) * time.Minute, true
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := targetBarber(c, requested)
	if !ok {
		return
	}

	productID, ok := uintQuery(c, "product_id")
	if !ok {
		httperr.BadRequest(c, "invalid_product_id", "Serviço inválido.")
		return
	}

	from, to, ok := dateRangeQuery(c)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	step, ok := displayStep(c)
	if !ok {
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		BarbershopID: barbershopID(c),
		BarberID:     barberID,
		ProductID:    productID,
		From:         from,
		To:           to,
		DisplayStep:  step,
	})
	if err != nil {
		writeError(c, h.log, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	barberID, ok := targetBarber(c, req.BarberID)
	if !ok {
		return
	}

	actor := userID(c)
	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: barbershopID(c),
		BarberID:     barberID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ClientEmail:  req.ClientEmail,
		ProductID:    req.ProductID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		ActorID:      &actor,
		RequestID:    middleware.RequestID(c),
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := targetBarber(c, requested)
	if !ok {
		return
	}

	if c.Query("date") == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}
	date, _, ok := dateRangeQuery(c)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	aps, err := h.list.ByDate(c.Request.Context(), barbershopID(c), barberID, date)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := targetBarber(c, requested)
	if !ok {
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	aps, err := h.list.ByMonth(c.Request.Context(), barbershopID(c), barberID, year, month)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := targetBarber(c, requested)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), barbershopID(c), barberID, id, userID(c))
	if err != nil {
		writeError(c, h.log, err, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := targetBarber(c, requested)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), barbershopID(c), barberID, id, userID(c))
	if err != nil {
		writeError(c, h.log, err, "failed_to_complete_appointment", "Erro ao concluir agendamento.")
		return
	}

	httpresp.OK(c, ap)
}
