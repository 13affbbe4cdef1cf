package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberProductHandler struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewBarberProductHandler(db *gorm.DB, log zerolog.Logger) *BarberProductHandler {
	return &BarberProductHandler{db: db, log: log}
}

// --------- Requests ---------

type CreateBarberProductRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=255"`
	DurationMin int     `json:"duration_min" binding:"required,min=1,max=720"`
	Price       float64 `json:"price" binding:"min=0"`
	Category    string  `json:"category" binding:"max=50"`
}

type UpdateBarberProductRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=1,max=720"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,max=50"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *BarberProductHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", barbershopID(c))

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var products []models.BarberProduct
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		writeError(c, h.log, err, "failed_to_list_products", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, products)
}

func (h *BarberProductHandler) Create(c *gin.Context) {
	var req CreateBarberProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	product := models.BarberProduct{
		BarbershopID: barbershopID(c),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Active:       true,
		Category:     strings.ToLower(strings.TrimSpace(req.Category)),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		writeError(c, h.log, err, "failed_to_create_product", "Erro ao criar serviço.")
		return
	}

	httpresp.Created(c, product)
}

// Update edits a service. Cached availability is keyed by duration, so a
// duration change needs no invalidation.
func (h *BarberProductHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req UpdateBarberProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var product models.BarberProduct
	if err := db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID(c)).
		First(&product).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Serviço não encontrado.")
			return
		}
		writeError(c, h.log, err, "failed_to_get_product", "Erro ao buscar serviço.")
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.DurationMin != nil {
		product.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := db.Save(&product).Error; err != nil {
		writeError(c, h.log, err, "failed_to_update_product", "Erro ao atualizar serviço.")
		return
	}

	httpresp.OK(c, product)
}
