package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/adapter/http/dto"
)

// workInputRow is one line of a work-input CSV:
//
//	employee_id,days,overtime_hours
//	1,5,2
type workInputRow struct {
	EmployeeID    int64  `csv:"employee_id"`
	Days          string `csv:"days"`
	OvertimeHours string `csv:"overtime_hours"`
}

func readWorkInputsFile(path string) ([]dto.WorkInputItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readWorkInputs(f)
}

func readWorkInputs(r io.Reader) ([]dto.WorkInputItem, error) {
	var rows []*workInputRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse work inputs: %w", err)
	}

	items := make([]dto.WorkInputItem, 0, len(rows))
	for i, row := range rows {
		days, err := parseCell(row.Days)
		if err != nil {
			return nil, fmt.Errorf("row %d: days: %w", i+2, err)
		}
		hours, err := parseCell(row.OvertimeHours)
		if err != nil {
			return nil, fmt.Errorf("row %d: overtime_hours: %w", i+2, err)
		}
		items = append(items, dto.WorkInputItem{
			EmployeeID:    row.EmployeeID,
			Days:          days,
			OvertimeHours: hours,
		})
	}
	return items, nil
}

// parseCell treats an empty cell as zero.
func parseCell(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
