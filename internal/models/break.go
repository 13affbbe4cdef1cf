package models

import "time"

const (
	BreakCustom   = "custom"
	BreakWeekly   = "weekly"
	BreakEveryday = "everyday"
)

// Break stores the three break variants in one table. Date is set only for
// custom breaks and Weekday only for weekly ones.
type Break struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index;not null" json:"barber_id"`

	Type    string  `gorm:"size:20;not null" json:"type"`
	Date    *string `gorm:"size:10;index" json:"date,omitempty"`
	Weekday *int    `json:"weekday,omitempty"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Note      string `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
