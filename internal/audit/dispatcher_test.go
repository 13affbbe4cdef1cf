package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *memorySink) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{BarbershopID: 1, Action: "appointment_created"})
	}
	d.Close()
	d.Close()

	assert.Len(t, sink.events, 10)
}

func TestDispatcher_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &memorySink{err: errors.New("db down")}
	d := NewDispatcher(sink, zerolog.Nop())

	d.Dispatch(Event{Action: "x"})
	d.Close()

	assert.Len(t, sink.events, 1)
}

func TestDispatcher_NilIsSafe(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestLogger_Log(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	uid, eid := uint(4), uint(9)
	err = New(db).Log(context.Background(), Event{
		BarbershopID: 1,
		UserID:       &uid,
		Action:       "day_off_created",
		Entity:       "day_off",
		EntityID:     &eid,
		Metadata:     map[string]string{"date": "2026-03-04"},
		RequestID:    "req-1",
	})
	require.NoError(t, err)

	var row models.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "day_off_created", row.Action)
	assert.Equal(t, uid, *row.UserID)
	assert.JSONEq(t, `{"date":"2026-03-04"}`, row.Metadata)
	assert.Equal(t, "req-1", row.RequestID)
}
