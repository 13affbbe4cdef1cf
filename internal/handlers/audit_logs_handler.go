package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	zones *timezone.Zones
	log   zerolog.Logger
}

func NewAuditLogsHandler(db *gorm.DB, zones *timezone.Zones, log zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, zones: zones, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID := barbershopID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := h.db.WithContext(c.Request.Context())

	var shop models.Barbershop
	if err := db.First(&shop, shopID).Error; err != nil {
		writeError(c, h.log, err, "audit_list_failed", "Erro ao listar logs.")
		return
	}
	loc := h.zones.Location(shop.Timezone)

	// --------------------------------------------------
	// Query base (sempre protegido por barbershop)
	// --------------------------------------------------

	q := db.Model(&models.AuditLog{}).Where("barbershop_id = ?", shopID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	// Dias no fuso da barbearia.
	if s := c.Query("from"); s != "" {
		from, err := calendar.ParseDate(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("created_at >= ?", from.Midnight(loc).UTC())
	}
	if s := c.Query("to"); s != "" {
		to, err := calendar.ParseDate(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDays(1).Midnight(loc).UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(c, h.log, err, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		writeError(c, h.log, err, "audit_list_failed", "Erro ao listar logs.")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
