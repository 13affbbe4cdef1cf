package models

import (
	"time"

	"gorm.io/datatypes"
)

type ScheduleRequest struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	PublicID     string `gorm:"size:36;uniqueIndex" json:"public_id"`
	BarbershopID uint   `gorm:"index" json:"barbershop_id"`
	BarberID     uint   `gorm:"index" json:"barber_id"`

	Kind    string         `gorm:"size:20;not null" json:"kind"`
	Payload datatypes.JSON `json:"payload"`

	Status       string     `gorm:"size:20;default:'pending'" json:"status"`
	ReviewedBy   *uint      `json:"reviewed_by"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	RejectReason string     `gorm:"size:255" json:"reject_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
