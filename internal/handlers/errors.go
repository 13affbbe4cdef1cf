package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

type businessMessage struct {
	status  int
	message string
}

var businessMessages = map[string]businessMessage{
	"barbershop_not_found":  {http.StatusNotFound, "Barbearia não encontrada."},
	"barber_not_found":      {http.StatusNotFound, "Barbeiro não encontrado."},
	"product_not_found":     {http.StatusNotFound, "Serviço não encontrado."},
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"request_not_found":     {http.StatusNotFound, "Solicitação não encontrada."},
	"break_not_found":       {http.StatusNotFound, "Pausa não encontrada."},
	"day_off_not_found":     {http.StatusNotFound, "Folga não encontrada."},

	"time_conflict":    {http.StatusConflict, "Conflito de horário."},
	"slot_unavailable": {http.StatusConflict, "Horário indisponível."},
	"day_off_exists":   {http.StatusConflict, "Já existe folga nesta data."},
	"invalid_state":    {http.StatusConflict, "Operação não permitida no estado atual."},

	"too_soon":             {http.StatusBadRequest, "Horário inválido."},
	"invalid_date_or_time": {http.StatusBadRequest, "Data ou hora inválida."},
	"invalid_range":        {http.StatusBadRequest, "Intervalo de datas inválido."},
	"range_too_large":      {http.StatusBadRequest, "Intervalo de datas muito grande."},
	"invalid_time":         {http.StatusBadRequest, "Horário inválido."},
	"invalid_interval":     {http.StatusBadRequest, "O horário final deve ser depois do inicial."},
	"invalid_weekday":      {http.StatusBadRequest, "Dia da semana inválido."},
	"duplicate_weekday":    {http.StatusBadRequest, "Dia da semana repetido."},
	"invalid_break_rule":   {http.StatusBadRequest, "Tipo de pausa inconsistente."},
	"invalid_date":         {http.StatusBadRequest, "Data inválida."},
	"invalid_payload":      {http.StatusBadRequest, "Dados da solicitação inválidos."},
	"invalid_request_kind": {http.StatusBadRequest, "Tipo de solicitação inválido."},
	"invalid_status":       {http.StatusBadRequest, "Status inválido."},
	"invalid_month":        {http.StatusBadRequest, "Mês inválido."},
}

// writeError maps a use case error to the JSON envelope. Anything that is not
// a known business error is logged and reported as internal.
func writeError(c *gin.Context, log zerolog.Logger, err error, fallbackCode, fallbackMessage string) {
	if code, ok := httperr.BusinessCode(err); ok {
		if m, known := businessMessages[code]; known {
			httperr.Write(c, m.status, code, m.message)
			return
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}

	if errors.Is(err, calendar.ErrInvalidInterval) {
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("corrupt schedule data")
	} else {
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg(fallbackCode)
	}
	httperr.Internal(c, fallbackCode, fallbackMessage)
}

// ======================================================
// Context / params
// ======================================================

func userID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func barbershopID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBarbershopID).(uint)
}

func userRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// dateRangeQuery reads ?from=&to=, or ?date= for a single day.
func dateRangeQuery(c *gin.Context) (calendar.Date, calendar.Date, bool) {
	if d := c.Query("date"); d != "" {
		date, err := calendar.ParseDate(d)
		if err != nil {
			return calendar.Date{}, calendar.Date{}, false
		}
		return date, date, true
	}

	from, err := calendar.ParseDate(c.Query("from"))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, false
	}
	to := from
	if s := c.Query("to"); s != "" {
		if to, err = calendar.ParseDate(s); err != nil {
			return calendar.Date{}, calendar.Date{}, false
		}
	}
	return from, to, true
}
