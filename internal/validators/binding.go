package validators

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterBinding adds the hhmm and ymd tags to gin's validator. It must run
// before any request binds a struct using them; calling it again is a no-op.
func RegisterBinding() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("hhmm", validateClock); err != nil {
			registerErr = fmt.Errorf("register hhmm: %w", err)
			return
		}
		if err := v.RegisterValidation("ymd", validateDate); err != nil {
			registerErr = fmt.Errorf("register ymd: %w", err)
		}
	})
	return registerErr
}

// "09:30", "24:00"
func validateClock(fl validator.FieldLevel) bool {
	_, err := calendar.ParseClock(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// "2025-03-14"
func validateDate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(strings.TrimSpace(fl.Field().String()))
	return err == nil
}
