package employee_test

import (
	"context"
	"testing"
	"time"

	"ymph-crud/internal/employee"
	"ymph-crud/internal/shared/codegen"
	"ymph-crud/internal/shared/filter"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memoryRepo keeps employees in a map; enough to check that what is
// written comes back unchanged.
type memoryRepo struct {
	rows   map[uint]employee.Employee
	nextID uint
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uint]employee.Employee{}}
}

func (m *memoryRepo) Create(_ context.Context, e *employee.Employee) error {
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.rows[e.ID] = *e
	return nil
}

func (m *memoryRepo) FindAll(context.Context, filter.Query) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id uint) (*employee.Employee, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (m *memoryRepo) FindActiveOptions(context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (m *memoryRepo) DistinctValues(context.Context, string) ([]string, error) {
	return nil, nil
}

func (m *memoryRepo) Update(_ context.Context, e *employee.Employee) error {
	if _, ok := m.rows[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	e.UpdatedAt = time.Now()
	m.rows[e.ID] = *e
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

type countingCounter struct{ repo *memoryRepo }

func (c countingCounter) GetNextValue(context.Context, string, string) (int64, error) {
	return int64(len(c.repo.rows)) + 1, nil
}

func TestEmployeeService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := employee.NewService(repo, countingCounter{repo: repo}, nil, nil)

	req := employee.CreateEmployeeRequest{
		FirstName:  "Ana",
		LastName:   "Cruz",
		Email:      "ana@x.com",
		Phone:      "+63 912 000 0000",
		Position:   "Clerk",
		Department: "HR",
		HireDate:   "2024-01-15",
		Salary:     "32000.00",
	}

	created, err := svc.Create(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, codegen.EmployeeCode(1), created.EmployeeCode)

	fetched, err := svc.GetByID(ctx, created.ID)
	assert.NoError(t, err)

	assert.Equal(t, req.FirstName, fetched.FirstName)
	assert.Equal(t, req.LastName, fetched.LastName)
	assert.Equal(t, req.Email, fetched.Email)
	assert.Equal(t, req.Phone, *fetched.Phone)
	assert.Equal(t, req.Position, fetched.Position)
	assert.Equal(t, req.Department, fetched.Department)
	assert.Equal(t, req.HireDate, fetched.HireDate)
	assert.Equal(t, "32000.00", *fetched.Salary)
	assert.Equal(t, employee.StatusActive, fetched.Status)
	assert.Equal(t, created, fetched)

	second, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FirstName: "Ben", LastName: "Abad", Email: "ben@x.com",
		Position: "Clerk", Department: "HR", HireDate: "2024-02-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP00002", second.EmployeeCode)

	assert.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.Error(t, err)
}
