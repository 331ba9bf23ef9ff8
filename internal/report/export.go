package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"User ID", "Name", "Date", "Regular Hours", "Overtime Hours", "Total Hours", "Approved"}

// WriteCSV serializes payroll rows to CSV. Rows arrive pre-sorted from
// PayrollRows, so equal input yields byte-identical output.
func WriteCSV(rows []PayrollRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.UserID,
			r.UserName,
			r.Date,
			strconv.FormatFloat(r.RegularHours, 'f', 2, 64),
			strconv.FormatFloat(r.OvertimeHours, 'f', 2, 64),
			strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
			strconv.FormatBool(r.Approved),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX serializes payroll rows to a single-sheet workbook.
func WriteXLSX(rows []PayrollRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Time Entries"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []interface{}{
			r.UserID, r.UserName, r.Date,
			r.RegularHours, r.OvertimeHours, r.TotalHours, r.Approved,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
