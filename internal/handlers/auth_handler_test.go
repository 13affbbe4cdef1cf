package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func codeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e.Code
}

func TestAuthHandler_Register(t *testing.T) {
	db := testutil.NewDB(t)
	zones := testutil.Zones(t, "America/Sao_Paulo", time.Now())

	h := NewAuthHandler(db, "test-secret", zones, zerolog.Nop())
	h.emailDomainValid = func(_ context.Context, email string) bool {
		return email != "dono@invalido.test"
	}

	r := gin.New()
	r.POST("/register", h.Register)

	body := gin.H{
		"barbershop_name": "Navalha",
		"barbershop_slug": " Navalha ",
		"name":            "Otávio",
		"email":           "Dono@Navalha.test",
		"password":        "segredo123",
	}

	w := postJSON(t, r, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		User       map[string]any `json:"user"`
		Barbershop map[string]any `json:"barbershop"`
		Token      string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "navalha", out.Barbershop["slug"])
	assert.Equal(t, "America/Sao_Paulo", out.Barbershop["timezone"])
	assert.Equal(t, "dono@navalha.test", out.User["email"])
	assert.Equal(t, models.RoleOwner, out.User["role"])

	tok, err := jwt.Parse(out.Token, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, out.User["id"], claims["sub"])
	assert.Equal(t, models.RoleOwner, claims["role"])

	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slug_already_exists", codeOf(t, w))

	body["barbershop_slug"] = "outra"
	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", codeOf(t, w))

	body["email"] = "dono@invalido.test"
	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email_domain", codeOf(t, w))

	body["email"] = "novo@navalha.test"
	body["timezone"] = "Mars/Olympus"
	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_timezone", codeOf(t, w))

	body["timezone"] = "America/New_York"
	body["password"] = "123"
	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_CreateStaff(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, "America/Sao_Paulo")
	zones := testutil.Zones(t, "America/Sao_Paulo", time.Now())

	h := NewAuthHandler(db, "test-secret", zones, zerolog.Nop())

	r := gin.New()
	r.POST("/staff", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, f.Owner.ID)
		c.Set(middleware.ContextBarbershopID, f.Shop.ID)
		c.Set(middleware.ContextUserRole, models.RoleOwner)
	}, h.CreateStaff)

	w := postJSON(t, r, "/staff", gin.H{
		"name": "Paulo", "email": "paulo@navalha.test", "password": "segredo123", "role": "barber",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var u models.User
	require.NoError(t, db.Where("email = ?", "paulo@navalha.test").First(&u).Error)
	assert.Equal(t, f.Shop.ID, u.BarbershopID)
	assert.True(t, u.TakesAppointments())

	w = postJSON(t, r, "/staff", gin.H{
		"name": "Paulo", "email": "paulo@navalha.test", "password": "segredo123", "role": "barber",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, r, "/staff", gin.H{
		"name": "Dona", "email": "dona@navalha.test", "password": "segredo123", "role": "owner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{httperr.ErrBusiness("slot_unavailable"), http.StatusConflict, "slot_unavailable"},
		{httperr.ErrBusiness("barber_not_found"), http.StatusNotFound, "barber_not_found"},
		{httperr.ErrBusiness("range_too_large"), http.StatusBadRequest, "range_too_large"},
		{httperr.ErrBusiness("something_new"), http.StatusBadRequest, "something_new"},
		{errors.New("connection refused"), http.StatusInternalServerError, "fallback_code"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, zerolog.Nop(), tc.err, "fallback_code", "falhou")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, codeOf(t, w))
		})
	}
}
