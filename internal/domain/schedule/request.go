package schedule

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Schedule Request
// ===============================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Kind string

const (
	KindWorkingHours Kind = "working_hours"
	KindBreak        Kind = "break"
	KindDayOff       Kind = "day_off"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindWorkingHours, KindBreak, KindDayOff:
		return k, nil
	}
	return "", httperr.ErrBusiness("invalid_request_kind")
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// CanReview: only pending requests can be approved or rejected.
func CanReview(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func Approve(r *models.ScheduleRequest, reviewerID uint, now time.Time) error {
	if err := CanReview(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusApproved)
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	return nil
}

func Reject(r *models.ScheduleRequest, reviewerID uint, reason string, now time.Time) error {
	if err := CanReview(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusRejected)
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.RejectReason = reason
	return nil
}
