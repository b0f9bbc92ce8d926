package report

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Payroll"

// XLSXRenderer renders reports as a single-sheet workbook.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Format() string { return "xlsx" }
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	// Built-in number format 2 is "0.00".
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 2})
	if err != nil {
		return err
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(xlsxSheet, cell, v)
	}

	if err := set(1, 1, rep.Title); err != nil {
		return err
	}
	if err := set(1, 2, rep.PeriodLine()); err != nil {
		return err
	}
	if err := set(1, 3, rep.CreatedLine()); err != nil {
		return err
	}

	const headerRow = 5
	for i, col := range Columns {
		if err := set(i+1, headerRow, col); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "F1", boldStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A5", "F5", boldStyle); err != nil {
		return err
	}

	rowNum := headerRow
	for _, row := range rep.Rows {
		rowNum++
		values := []any{
			row.Name,
			nullCellValue(row.Days),
			nullCellValue(row.Overtime),
			row.Total.InexactFloat64(),
			row.Bank.InexactFloat64(),
			row.Cash.InexactFloat64(),
		}
		for i, v := range values {
			if err := set(i+1, rowNum, v); err != nil {
				return err
			}
		}
	}
	if rowNum > headerRow {
		from, _ := excelize.CoordinatesToCellName(2, headerRow+1)
		to, _ := excelize.CoordinatesToCellName(len(Columns), rowNum)
		if err := f.SetCellStyle(xlsxSheet, from, to, moneyStyle); err != nil {
			return err
		}
	}

	totalRow := rowNum + 2
	if err := set(1, totalRow, "Grand Total Cost ("+rep.Currency+")"); err != nil {
		return err
	}
	if err := set(4, totalRow, rep.GrandTotal.InexactFloat64()); err != nil {
		return err
	}
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetCellStyle(xlsxSheet, labelCell, labelCell, boldStyle); err != nil {
		return err
	}
	totalCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	if err := f.SetCellStyle(xlsxSheet, totalCell, totalCell, totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 30); err != nil {
		return err
	}

	return f.Write(w)
}

func nullCellValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return Unavailable
	}
	return d.Decimal.InexactFloat64()
}
