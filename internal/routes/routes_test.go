package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	r *gin.Engine
	f *testutil.Fixture
}

func newServer(t *testing.T) *server {
	t.Helper()
	require.NoError(t, validators.RegisterBinding())

	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, "America/Sao_Paulo")
	testutil.WorkEveryDay(t, db, f.Owner.ID, "09:00", "18:00")

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("barbershop_id = ?", f.Shop.ID).Update("password_hash", string(hash)).Error)

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Booking: config.BookingConfig{
			SlotGranularityMin:  30,
			DefaultLeadMin:      60,
			MaxRangeDays:        31,
			AvailabilityTimeout: 5 * time.Second,
			SlotLayout:          "24h",
		},
		MetricsEnabled: true,
	}

	r := gin.New()
	require.NoError(t, RegisterRoutes(r, Deps{
		DB:     db,
		Config: cfg,
		Log:    zerolog.Nop(),
		Zones:  testutil.Zones(t, "America/Sao_Paulo", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}))

	return &server{r: r, f: f}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *server) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "segredo123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e.Code
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPublicAvailability(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/public/navalha/availability?product_id=1&date=2026-03-02", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out ucAppointment.AvailabilityOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, s.f.Owner.ID, out.BarberID)
	require.Len(t, out.Days, 1)
	assert.Len(t, out.Days[0].Slots, 18)
	assert.Equal(t, "09:00", out.Days[0].Slots[0].Start)

	w = s.do(t, http.MethodGet, "/api/public/navalha/availability?product_id=1&from=2026-03-02&to=2026-03-04&step=60", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Days, 3)
	assert.Len(t, out.Days[2].Slots, 9)
}

func TestPublicAvailability_Errors(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/public/navalha/availability?date=2026-03-02", http.StatusBadRequest, "missing_params"},
		{"/api/public/navalha/availability?product_id=1&date=02/03/2026", http.StatusBadRequest, "invalid_date"},
		{"/api/public/navalha/availability?product_id=1&from=2026-03-04&to=2026-03-02", http.StatusBadRequest, "invalid_range"},
		{"/api/public/navalha/availability?product_id=1&from=2026-03-01&to=2026-06-01", http.StatusBadRequest, "range_too_large"},
		{"/api/public/navalha/availability?product_id=1&date=2026-03-02&step=0", http.StatusBadRequest, "invalid_step"},
		{"/api/public/navalha/availability?product_id=99&date=2026-03-02", http.StatusNotFound, "product_not_found"},
		{"/api/public/outra/availability?product_id=1&date=2026-03-02", http.StatusNotFound, "barbershop_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tc.path, "", nil)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, errorCode(t, w))
		})
	}
}

func TestPublicCreateAppointment(t *testing.T) {
	s := newServer(t)

	body := gin.H{
		"client_name":  "Caio",
		"client_phone": "11999990000",
		"product_id":   s.f.Product.ID,
		"date":         "2026-03-02",
		"time":         "10:00",
	}

	w := s.do(t, http.MethodPost, "/api/public/navalha/appointments", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ap models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ap))
	assert.Equal(t, s.f.Owner.ID, ap.BarberID)

	w = s.do(t, http.MethodPost, "/api/public/navalha/appointments", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", errorCode(t, w))

	body["time"] = "9h"
	w = s.do(t, http.MethodPost, "/api/public/navalha/appointments", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["time"] = "09:30"
	body["date"] = "2026-03-01"
	w = s.do(t, http.MethodPost, "/api/public/navalha/appointments", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "too_soon", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/api/public/navalha/availability?product_id=1&date=2026-03-02", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out ucAppointment.AvailabilityOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Days[0].Slots, 17)
}

func TestStaffFlow(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	owner := s.login(t, "owner@navalha.test")

	w = s.do(t, http.MethodPost, "/api/me/appointments", owner, gin.H{
		"client_name":  "Caio",
		"client_phone": "11999990000",
		"product_id":   s.f.Product.ID,
		"date":         "2026-03-02",
		"time":         "14:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/me/appointments?date=2026-03-02", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = s.do(t, http.MethodGet, "/api/me/appointments?date=2026-03-02&barber_id=999", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	barber := s.login(t, "barber@navalha.test")

	// Barbers only reach their own agenda.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/me/appointments?date=2026-03-02&barber_id=%d", s.f.Owner.ID), barber, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/barbers/%d/working-hours", s.f.Barber.ID), barber, gin.H{"days": []gin.H{}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "owner@navalha.test", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, w))
}
