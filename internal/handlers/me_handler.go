package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type MeHandler struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewMeHandler(db *gorm.DB, log zerolog.Logger) *MeHandler {
	return &MeHandler{db: db, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, userID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		writeError(c, h.log, err, "failed_to_get_user", "Erro ao buscar usuário.")
		return
	}

	httpresp.OK(c, gin.H{
		"user":       userView(&user),
		"barbershop": shopView(&user.Barbershop),
	})
}

// ListStaff lists the users of the caller's barbershop.
func (h *MeHandler) ListStaff(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", barbershopID(c)).
		Order("name ASC").
		Find(&users).Error; err != nil {
		writeError(c, h.log, err, "failed_to_list_staff", "Erro ao listar equipe.")
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	httpresp.List(c, out)
}
