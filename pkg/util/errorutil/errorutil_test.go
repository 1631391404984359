package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"wrapped validation", fmt.Errorf("ctx: %w", NewValidationError("bad", nil)), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.status, de.HTTPStatus)
			assert.Equal(t, tt.code, de.Code)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestMapError(t *testing.T) {
	nf := ToDomainError(MapError(pgx.ErrNoRows, "Employee", "Failed to update employee"))
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus)
	assert.Equal(t, "Employee not found", nf.Message)

	internal := ToDomainError(MapError(errors.New("conn refused"), "Employee", "Failed to update employee"))
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.Equal(t, "Failed to update employee", internal.Message)
	assert.ErrorContains(t, internal, "conn refused")

	assert.NoError(t, MapError(nil, "Employee", "x"))
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(map[string]string{"name": "A", "email": " ", "role": ""}, "name", "email", "role")
	assert.Equal(t, []string{"email", "role"}, missing)

	err := ToDomainError(NewMissingFields(missing))
	assert.Equal(t, "Missing required fields: email, role", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}
