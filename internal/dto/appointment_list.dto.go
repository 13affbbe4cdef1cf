package dto

import "time"

// AppointmentListDTO is one row of the staff agenda. Times are in the shop
// timezone; Date is the shop-local day the appointment starts on.
type AppointmentListDTO struct {
	ID       uint   `json:"id"`
	BarberID uint   `json:"barber_id"`
	Date     string `json:"date"`

	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Notes       string `json:"notes,omitempty"`
}
