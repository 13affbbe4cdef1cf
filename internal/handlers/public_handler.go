package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	log          zerolog.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	log zerolog.Logger,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
		log:          log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id"`
	ClientName  string `json:"client_name" binding:"required,max=100"`
	ClientPhone string `json:"client_phone" binding:"required,max=20"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Date        string `json:"date" binding:"required,ymd"`  // YYYY-MM-DD
	Time        string `json:"time" binding:"required,hhmm"` // HH:mm
	Notes       string `json:"notes" binding:"max=255"`
}

type PublicBarber struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

////////////////////////////////////////////////////////
// LOOKUPS
////////////////////////////////////////////////////////

func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Barbershop, bool) {
	var shop models.Barbershop
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&shop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		writeError(c, h.log, err, "failed_to_get_barbershop", "Erro ao buscar barbearia.")
		return nil, false
	}
	return &shop, true
}

// barberFor returns the requested barber id, or the shop owner when none is
// given (single-chair shops).
func (h *PublicHandler) barberFor(c *gin.Context, shop *models.Barbershop, requested uint) (uint, bool) {
	if requested != 0 {
		return requested, true
	}

	var owner models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND role = ?", shop.ID, models.RoleOwner).
		Order("id ASC").
		First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return 0, false
		}
		writeError(c, h.log, err, "failed_to_get_barber", "Erro ao buscar barbeiro.")
		return 0, false
	}
	return owner.ID, true
}

////////////////////////////////////////////////////////
// PRODUCTS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProducts(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", shop.ID, true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var products []models.BarberProduct
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		writeError(c, h.log, err, "failed_to_list_products", "Erro ao listar produtos.")
		return
	}
	if products == nil {
		products = []models.BarberProduct{}
	}

	httpresp.OK(c, gin.H{
		"barbershop": shop,
		"products":   products,
	})
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ? AND role IN ?",
			shop.ID, true, []string{models.RoleOwner, models.RoleBarber}).
		Order("name ASC").
		Find(&users).Error; err != nil {
		writeError(c, h.log, err, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	out := make([]PublicBarber, 0, len(users))
	for _, u := range users {
		out = append(out, PublicBarber{ID: u.ID, Name: u.Name})
	}
	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailabilityForClient(c *gin.Context) {
	productID, ok := uintQuery(c, "product_id")
	if !ok {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
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

	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	requested, _ := uintQuery(c, "barber_id")
	barberID, ok := h.barberFor(c, shop, requested)
	if !ok {
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		BarbershopID: shop.ID,
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

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	barberID, ok := h.barberFor(c, shop, req.BarberID)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: shop.ID,
		BarberID:     barberID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ClientEmail:  req.ClientEmail,
		ProductID:    req.ProductID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		RequestID:    middleware.RequestID(c),
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, ap)
}
