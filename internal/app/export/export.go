// Package export writes stored meetings to spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/tealeg/xlsx"

	"mom-generator/internal/app/model"
)

// SheetName is the worksheet holding one row per meeting
const SheetName = "Meetings"

// Header is the first row of the sheet
var Header = []string{"ID", "User", "Created At", "File", "Language", "Audio Duration", "Transcript", "Minutes", "Error"}

// Workbook builds the spreadsheet for meetings
func Workbook(meetings []model.Meeting) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range Header {
		cell := headerRow.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
	}

	for _, m := range meetings {
		row := sheet.AddRow()
		row.AddCell().SetInt(m.ID)
		row.AddCell().Value = m.User
		row.AddCell().Value = m.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = m.FileName
		row.AddCell().Value = m.Language
		row.AddCell().Value = fmt.Sprintf("%.2f", m.AudioDuration)
		row.AddCell().Value = m.DisplayTranscript()
		row.AddCell().Value = m.Minutes
		row.AddCell().Value = m.ErrorMessage
	}
	return file, nil
}

// ToExcel writes meetings as an xlsx document to w
func ToExcel(meetings []model.Meeting, w io.Writer) error {
	file, err := Workbook(meetings)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ToExcelFile writes meetings to path on fs
func ToExcelFile(fs afero.Fs, meetings []model.Meeting, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := ToExcel(meetings, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
