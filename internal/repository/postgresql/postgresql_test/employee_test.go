package postgresql_test

import (
	"context"
	"testing"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_GetByID(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	companyID := newID(t)
	otherCompanyID := newID(t)
	id := setup.createTestEmployee(t, companyID, "Maria Souza", "52998224725", "employee", 2)

	found, err := repo.GetByID(ctx, id, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", found.FullName)
	assert.Equal(t, employee.PayeeEmployee, found.PayeeKind)
	require.NotNil(t, found.BaseSalary)
	assert.Equal(t, "3000.00", found.BaseSalary.StringFixed(2))
	assert.Equal(t, "2022-03-01", found.AdmissionDate.Format("2006-01-02"))
	assert.Len(t, found.Dependents, 2)
	assert.Equal(t, 2, found.IRRFDependents())

	_, err = repo.GetByID(ctx, id, otherCompanyID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_List(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	companyID := newID(t)
	setup.createTestEmployee(t, companyID, "Ana Lima", "11144477735", "employee", 1)
	setup.createTestEmployee(t, companyID, "Bruno Costa", "52998224725", "partner", 0)
	setup.createTestEmployee(t, newID(t), "Carla Dias", "39053344705", "employee", 0)

	all, total, err := repo.List(ctx, companyID, employee.EmployeeFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Lima", all[0].FullName)
	assert.Len(t, all[0].Dependents, 1)
	assert.Empty(t, all[1].Dependents)

	partner := "partner"
	partners, total, err := repo.List(ctx, companyID, employee.EmployeeFilter{PayeeKind: &partner, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, partners, 1)
	assert.True(t, partners[0].IsPartner())

	search := "ana"
	found, _, err := repo.List(ctx, companyID, employee.EmployeeFilter{Search: &search, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ana Lima", found[0].FullName)

	page, total, err := repo.List(ctx, companyID, employee.EmployeeFilter{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Bruno Costa", page[0].FullName)
}
