package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type BarbershopHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   zerolog.Logger
}

func NewBarbershopHandler(db *gorm.DB, audit *audit.Dispatcher, log zerolog.Logger) *BarbershopHandler {
	return &BarbershopHandler{db: db, audit: audit, log: log}
}

// Nil fields are left unchanged. A negative number clears an override so the
// configured default applies again.
type UpdateBarbershopConfigRequest struct {
	Timezone           *string `json:"timezone"`
	MinAdvanceMinutes  *int    `json:"min_advance_minutes" binding:"omitempty,max=10080"`
	SlotGranularityMin *int    `json:"slot_granularity_min" binding:"omitempty,max=240"`
}

func (h *BarbershopHandler) load(c *gin.Context) (*models.Barbershop, bool) {
	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, barbershopID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		writeError(c, h.log, err, "failed_to_get_barbershop", "Erro ao buscar dados da barbearia.")
		return nil, false
	}
	return &shop, true
}

func (h *BarbershopHandler) GetMeBarbershop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) UpdateMeBarbershop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBarbershopConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		shop.Timezone = *req.Timezone
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			shop.MinAdvanceMinutes = nil
		} else {
			v := *req.MinAdvanceMinutes
			shop.MinAdvanceMinutes = &v
		}
	}

	if req.SlotGranularityMin != nil {
		switch v := *req.SlotGranularityMin; {
		case v < 0:
			shop.SlotGranularityMin = nil
		case v == 0:
			httperr.BadRequest(c, "invalid_granularity", "Intervalo entre horários deve ser positivo.")
			return
		default:
			shop.SlotGranularityMin = &v
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		writeError(c, h.log, err, "failed_to_update_barbershop", "Erro ao salvar as configurações da barbearia.")
		return
	}

	actorID := userID(c)
	h.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &actorID,
		Action:       "barbershop_settings_updated",
		Entity:       "barbershop",
		EntityID:     &shop.ID,
		Metadata:     req,
		RequestID:    middleware.RequestID(c),
	})

	httpresp.OK(c, shop)
}
