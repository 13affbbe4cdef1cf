// Package testutil builds an in-memory database with a small barbershop for
// repository, use case and handler tests.
package testutil

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// NewDB opens a private in-memory SQLite database with the full schema. A
// single connection keeps every query on the same database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb, "UTC"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

type Fixture struct {
	Shop    models.Barbershop
	Owner   models.User
	Barber  models.User
	Admin   models.User
	Product models.BarberProduct
}

// Seed creates one shop in tz with an owner, a barber, an admin (no chair)
// and a 30 minute haircut.
func Seed(t testing.TB, gdb *gorm.DB, tz string) *Fixture {
	t.Helper()

	f := &Fixture{
		Shop: models.Barbershop{Name: "Navalha", Slug: "navalha", Timezone: tz},
	}
	must(t, gdb.Create(&f.Shop).Error)

	f.Owner = models.User{BarbershopID: f.Shop.ID, Name: "Otávio", Email: "owner@navalha.test", PasswordHash: "x", Role: models.RoleOwner, Active: true}
	f.Barber = models.User{BarbershopID: f.Shop.ID, Name: "Bruno", Email: "barber@navalha.test", PasswordHash: "x", Role: models.RoleBarber, Active: true}
	f.Admin = models.User{BarbershopID: f.Shop.ID, Name: "Ana", Email: "admin@navalha.test", PasswordHash: "x", Role: models.RoleAdmin, Active: true}
	for _, u := range []*models.User{&f.Owner, &f.Barber, &f.Admin} {
		must(t, gdb.Omit("Barbershop").Create(u).Error)
	}

	f.Product = models.BarberProduct{BarbershopID: f.Shop.ID, Name: "Corte", DurationMin: 30, Price: 50, Active: true}
	must(t, gdb.Create(&f.Product).Error)

	return f
}

// WorkEveryDay gives barberID the same active hours on all seven weekdays.
func WorkEveryDay(t testing.TB, gdb *gorm.DB, barberID uint, start, end string) {
	t.Helper()
	for wd := 0; wd < 7; wd++ {
		must(t, gdb.Create(&models.WorkingHours{
			BarberID:  barberID,
			Weekday:   wd,
			StartTime: start,
			EndTime:   end,
			Active:    true,
		}).Error)
	}
}

// Zones returns zones whose clock is frozen at now.
func Zones(t testing.TB, fallback string, now time.Time) *timezone.Zones {
	t.Helper()
	z, err := timezone.New(fallback)
	if err != nil {
		t.Fatalf("zones: %v", err)
	}
	return z.WithClock(func() time.Time { return now })
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}
