package httperr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBusinessCode(t *testing.T) {
	err := fmt.Errorf("create: %w", ErrBusiness("time_conflict"))

	code, ok := BusinessCode(err)
	assert.True(t, ok)
	assert.Equal(t, "time_conflict", code)
	assert.True(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsBusiness(err, "too_soon"))

	_, ok = BusinessCode(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestPostgresCodes(t *testing.T) {
	excl := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	uniq := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsExclusionConflict(excl))
	assert.False(t, IsExclusionConflict(uniq))
	assert.True(t, IsUniqueViolation(uniq))
	assert.False(t, IsUniqueViolation(nil))
}
