package models

import "time"

type DayOff struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_days_off_barber_date;not null" json:"barber_id"`

	// YYYY-MM-DD
	Date   string `gorm:"size:10;uniqueIndex:idx_days_off_barber_date;not null" json:"date"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (DayOff) TableName() string { return "days_off" }
