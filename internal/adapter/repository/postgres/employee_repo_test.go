package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payroll/internal/domain"
)

var employeeColumns = []string{"id", "name", "daily_wage", "overtime_cost", "bank_limit", "is_active", "created_at", "updated_at"}

func queryName(name string) string {
	return regexp.QuoteMeta("-- name: " + name + " ")
}

// Row values use the destination pgtype types so pgxmock assigns them directly.
func num(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func ts(t time.Time) pgtype.Timestamptz {
	return timeToPgTimestamptz(t)
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(queryName("CreateEmployee")).
		WithArgs("Anna", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(11), "Anna", num("50.0000"), num("10.0000"), num("100.0000"), true, ts(created), ts(created)))

	repo := NewEmployeeRepository(mock)
	e := &domain.Employee{
		Name:         "Anna",
		DailyWage:    decimal.RequireFromString("50"),
		OvertimeCost: decimal.RequireFromString("10"),
		BankLimit:    decimal.RequireFromString("100"),
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), e))

	assert.Equal(t, int64(11), e.ID)
	assert.True(t, e.CreatedAt.Equal(created))
	assertExpectations(t, mock)
}

func TestEmployeeRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(queryName("GetEmployeeByID")).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(4), "Bill", num("40.0000"), num("0.0000"), num("0.0000"), false, ts(now), ts(now)))
	mock.ExpectQuery(queryName("GetEmployeeByID")).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewEmployeeRepository(mock)

	e, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Bill", e.Name)
	assert.True(t, e.DailyWage.Equal(decimal.RequireFromString("40")))
	assert.True(t, e.BankLimit.IsZero())
	assert.False(t, e.IsActive)

	_, err = repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	assertExpectations(t, mock)
}

func TestEmployeeRepositoryGetByIDsKeepsRequestedOrder(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(queryName("GetEmployeesByIDs")).
		WithArgs([]int64{2, 1}).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "Anna", num("50"), num("10"), num("100"), true, ts(now), ts(now)).
			AddRow(int64(2), "Bill", num("40"), num("0"), num("0"), true, ts(now), ts(now)))

	repo := NewEmployeeRepository(mock)
	got, err := repo.GetByIDs(context.Background(), []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bill", got[0].Name)
	assert.Equal(t, "Anna", got[1].Name)

	assertExpectations(t, mock)
}

func TestEmployeeRepositoryGetByIDsUnknown(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(queryName("GetEmployeesByIDs")).
		WithArgs([]int64{1, 9}).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "Anna", num("50"), num("10"), num("100"), true, ts(now), ts(now)))

	repo := NewEmployeeRepository(mock)
	_, err := repo.GetByIDs(context.Background(), []int64{1, 9})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.Contains(t, err.Error(), "id 9")
}

func TestEmployeeRepositoryListActive(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(queryName("ListActiveEmployees")).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "Anna", num("50"), num("10"), num("100"), true, ts(now), ts(now)).
			AddRow(int64(2), "Bill", num("40"), num("0"), num("0"), true, ts(now), ts(now)))

	repo := NewEmployeeRepository(mock)
	got, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	assertExpectations(t, mock)
}

func TestEmployeeRepositoryUpdateAndDeactivate(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "unknown employee", affected: 0, wantErr: domain.ErrEmployeeNotFound},
		{name: "database error", execErr: errors.New("conn reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewEmployeeRepository(mock)
			now := time.Now().UTC()

			for _, q := range []string{"UpdateEmployee", "DeactivateEmployee"} {
				exp := mock.ExpectExec(queryName(q))
				if tt.execErr != nil {
					exp.WillReturnError(tt.execErr)
				} else {
					exp.WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))
				}
			}

			updateErr := repo.Update(context.Background(), &domain.Employee{ID: 3, Name: "Anna", UpdatedAt: now})
			deactivateErr := repo.Deactivate(context.Background(), 3, now)

			switch {
			case tt.execErr != nil:
				assert.ErrorIs(t, updateErr, tt.execErr)
				assert.ErrorIs(t, deactivateErr, tt.execErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, updateErr, tt.wantErr)
				assert.ErrorIs(t, deactivateErr, tt.wantErr)
			default:
				assert.NoError(t, updateErr)
				assert.NoError(t, deactivateErr)
			}

			assertExpectations(t, mock)
		})
	}
}
