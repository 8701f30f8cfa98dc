// Package xlsx は勤怠マトリクスを Excel ブックとして書き出します。
package xlsx

import (
	"fmt"
	"io"

	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	hoursFormat  = "0.0"

	headerRows  = 2
	firstDayCol = 3
)

// Options は書き出し時の表示設定です。
type Options struct {
	// Locale は曜日ラベルの言語です。未指定の場合は英語になります。
	Locale string
	// SheetName は出力シート名です。未指定の場合は対象年月 (YYYY-MM) を使います。
	SheetName string
}

// WriteMatrix はマトリクスを 1 シートのブックとして w に書き出します。
//
// 1 行目に日付、2 行目に曜日を置き、3 行目以降が社員行、最終行が日別合計です。
// 未入力のセルは空欄、明示的な 0 は 0 として出力します。
func WriteMatrix(w io.Writer, m *attendance.Matrix, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = m.YearMonth().String()
	}
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	wr := &writer{f: f, sheet: sheet, statusStyles: make(map[attendance.Category]int)}
	if err := wr.init(); err != nil {
		return err
	}
	if err := wr.header(m, opts.Locale); err != nil {
		return err
	}

	rows := m.Rows()
	for i, row := range rows {
		if err := wr.employeeRow(headerRows+1+i, row); err != nil {
			return err
		}
	}
	if err := wr.footer(headerRows+1+len(rows), m); err != nil {
		return err
	}

	if err := wr.layout(len(m.Days())); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

type writer struct {
	f            *excelize.File
	sheet        string
	headerStyle  int
	hoursStyle   int
	totalStyle   int
	statusStyles map[attendance.Category]int
}

func (w *writer) init() error {
	var err error
	if w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	format := hoursFormat
	if w.hoursStyle, err = w.f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return fmt.Errorf("xlsx: hours style: %w", err)
	}
	if w.totalStyle, err = w.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &format,
	}); err != nil {
		return fmt.Errorf("xlsx: total style: %w", err)
	}

	for _, c := range attendance.Categories() {
		style := attendance.StyleFor(c)
		id, err := w.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{style.Background}},
			Font: &excelize.Font{Color: style.Foreground},
		})
		if err != nil {
			return fmt.Errorf("xlsx: status style %s: %w", c, err)
		}
		w.statusStyles[c] = id
	}
	return nil
}

func (w *writer) header(m *attendance.Matrix, locale string) error {
	ym := m.YearMonth()
	if err := w.set(1, 1, "Employee"); err != nil {
		return err
	}
	if err := w.set(2, 1, "Status"); err != nil {
		return err
	}

	days := m.Days()
	for i, day := range days {
		label, err := calendar.WeekdayLabel(ym, day, locale)
		if err != nil {
			return fmt.Errorf("xlsx: weekday label: %w", err)
		}
		if err := w.set(firstDayCol+i, 1, day); err != nil {
			return err
		}
		if err := w.set(firstDayCol+i, 2, label); err != nil {
			return err
		}
	}
	if err := w.set(firstDayCol+len(days), 1, "Total"); err != nil {
		return err
	}

	return w.style(1, 1, firstDayCol+len(days), headerRows, w.headerStyle)
}

func (w *writer) employeeRow(rowNum int, row attendance.Row) error {
	if err := w.set(1, rowNum, row.Employee.Name); err != nil {
		return err
	}
	if err := w.set(2, rowNum, attendance.StyleFor(row.Status).Label); err != nil {
		return err
	}
	statusStyle, ok := w.statusStyles[row.Status]
	if !ok {
		statusStyle = w.statusStyles[attendance.CategoryNoUpload]
	}
	if err := w.style(2, rowNum, 2, rowNum, statusStyle); err != nil {
		return err
	}

	for i, cell := range row.Cells {
		if !cell.Present {
			continue
		}
		if err := w.set(firstDayCol+i, rowNum, cell.Hours); err != nil {
			return err
		}
	}
	totalCol := firstDayCol + len(row.Cells)
	if err := w.set(totalCol, rowNum, row.Total); err != nil {
		return err
	}
	if len(row.Cells) > 0 {
		if err := w.style(firstDayCol, rowNum, totalCol-1, rowNum, w.hoursStyle); err != nil {
			return err
		}
	}
	return w.style(totalCol, rowNum, totalCol, rowNum, w.totalStyle)
}

func (w *writer) footer(rowNum int, m *attendance.Matrix) error {
	if err := w.set(1, rowNum, "Total"); err != nil {
		return err
	}
	totals := m.ColumnTotals()
	for i, total := range totals {
		if err := w.set(firstDayCol+i, rowNum, total); err != nil {
			return err
		}
	}
	if err := w.set(firstDayCol+len(totals), rowNum, m.GrandTotal()); err != nil {
		return err
	}
	return w.style(1, rowNum, firstDayCol+len(totals), rowNum, w.totalStyle)
}

func (w *writer) layout(days int) error {
	if err := w.f.SetColWidth(w.sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}
	if err := w.f.SetColWidth(w.sheet, "B", "B", 16); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}
	if days > 0 {
		first, _ := excelize.ColumnNumberToName(firstDayCol)
		last, _ := excelize.ColumnNumberToName(firstDayCol + days - 1)
		if err := w.f.SetColWidth(w.sheet, first, last, 6); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
	}
	topLeft, _ := excelize.CoordinatesToCellName(firstDayCol, headerRows+1)
	if err := w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      firstDayCol - 1,
		YSplit:      headerRows,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("xlsx: freeze panes: %w", err)
	}
	return nil
}

func (w *writer) set(col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("xlsx: set %s: %w", cell, err)
	}
	return nil
}

func (w *writer) style(col1, row1, col2, row2, styleID int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := w.f.SetCellStyle(w.sheet, from, to, styleID); err != nil {
		return fmt.Errorf("xlsx: style %s:%s: %w", from, to, err)
	}
	return nil
}
