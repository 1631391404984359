package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/repository"
)

func TestLoad(t *testing.T) {
	repo := repository.NewMemoryEmployeeRepository()

	n, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	rows, total, err := repo.List(context.Background(), repository.EmployeeFilter{Company: "tcs", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, row := range rows {
		assert.Equal(t, "TCS", row.Company)
	}

	assert.Zero(t, Employees[0].ID)
}
