package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iho/payroll/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRun(t *testing.T) *domain.PayrollRunResult {
	t.Helper()

	period, err := domain.ParsePeriod("2024-03-01", "2024-03-15")
	require.NoError(t, err)

	run, err := domain.RunPayroll(period, []*domain.Employee{
		{ID: 2, Name: "Bill", DailyWage: d("40"), OvertimeCost: d("0"), BankLimit: d("0")},
		{ID: 1, Name: "Anna", DailyWage: d("50"), OvertimeCost: d("10"), BankLimit: d("100")},
	}, map[int64]domain.WorkInput{
		1: {EmployeeID: 1, Days: d("5"), OvertimeHours: d("2")},
		2: {EmployeeID: 2, Days: d("10"), OvertimeHours: d("0")},
	})
	require.NoError(t, err)

	return run
}

func TestFromRun(t *testing.T) {
	run := sampleRun(t)
	generatedAt := time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC)

	rep := FromRun(run, generatedAt, Options{})

	assert.Equal(t, DefaultTitle, rep.Title)
	assert.Equal(t, "Period: 2024-03-01 to 2024-03-15", rep.PeriodLine())
	assert.Equal(t, "Created at: 2024-03-16 09:30:00", rep.CreatedLine())
	assert.Equal(t, "Grand Total Cost: 670.00 EUR", rep.GrandTotalLine())

	require.Len(t, rep.Rows, 2)
	// Roster order, not ID order.
	assert.Equal(t, []string{"Bill", "10.00", "0.00", "400.00", "0.00", "400.00"}, rep.Rows[0].Cells())
	assert.Equal(t, []string{"Anna", "5.00", "2.00", "270.00", "100.00", "170.00"}, rep.Rows[1].Cells())
}

func TestFromRun_UsesSameFiguresAsRecord(t *testing.T) {
	run := sampleRun(t)
	rep := FromRun(run, time.Now(), Options{})
	rec := domain.NewPayrollRecord(run)

	lines, err := rec.Lines()
	require.NoError(t, err)
	require.Len(t, lines, len(rep.Rows))

	for i, row := range rep.Rows {
		assert.Equal(t, lines[i].Name, row.Name)
		assert.True(t, lines[i].GrossPay.Equal(row.Total))
		assert.True(t, lines[i].BankPay.Equal(row.Bank))
		assert.True(t, lines[i].CashPay.Equal(row.Cash))
	}
	assert.True(t, rec.TotalCost.Equal(rep.GrandTotal))
}

func TestFromRecord(t *testing.T) {
	rec := &domain.PayrollRecord{
		ID:          12,
		DateCreated: time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC),
		DateStart:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalCost:   d("670.00"),
		Details:     "Anna: 270.00 (100.00, 170.00)\nBill: 400.00 (0.00, 400.00)",
	}

	rep, err := FromRecord(rec, Options{Title: "Custom", Currency: "USD"})
	require.NoError(t, err)

	assert.Equal(t, "Custom", rep.Title)
	assert.Equal(t, "Grand Total Cost: 670.00 USD", rep.GrandTotalLine())
	assert.Equal(t, "payroll_12.pdf", rep.Filename("pdf"))
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, []string{"Anna", "-", "-", "270.00", "100.00", "170.00"}, rep.Rows[0].Cells())

	rec.Details = "not a details line"
	_, err = FromRecord(rec, Options{})
	assert.ErrorIs(t, err, domain.ErrMalformedDetails)
}

func TestPDFRenderer(t *testing.T) {
	rep := FromRun(sampleRun(t), time.Now(), Options{})
	rep.Rows[0].Name = "Zoë Παπαδοπούλου"

	r := NewPDFRenderer()
	assert.Equal(t, "pdf", r.Format())
	assert.Equal(t, "application/pdf", r.ContentType())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, rep))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "expected PDF header")
}

func TestXLSXRenderer(t *testing.T) {
	rep := FromRun(sampleRun(t), time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC), Options{})

	var buf bytes.Buffer
	require.NoError(t, NewXLSXRenderer().Render(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())

	header, err := f.GetCellValue(xlsxSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Employee", header)

	name, err := f.GetCellValue(xlsxSheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Anna", name)

	total, err := f.GetCellValue(xlsxSheet, "D7")
	require.NoError(t, err)
	assert.Equal(t, "270.00", total)

	grand, err := f.GetCellValue(xlsxSheet, "D9")
	require.NoError(t, err)
	assert.Equal(t, "670.00", grand)
}
