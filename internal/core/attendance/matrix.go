package attendance

import (
	"fmt"
	"math"

	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
)

// Employee は集計対象となる社員です。
type Employee struct {
	ID     string
	Name   string
	Active bool
}

// HoursEntry は社員・日ごとの勤務時間です。エントリが無い日は「未入力」を意味します。
type HoursEntry struct {
	EmployeeID string
	Day        int
	Hours      float64
}

// Cell は表示用の 1 マスです。Present が false の場合は未入力で、明示的な 0 とは区別されます。
type Cell struct {
	Day     int
	Hours   float64
	Present bool
}

// Row は社員 1 名分の表示行です。
type Row struct {
	Employee Employee
	Status   Category
	Cells    []Cell
	Total    float64
}

// Matrix は月次勤怠マトリクスの表示用モデルです。生成後は変更されません。
type Matrix struct {
	yearMonth    calendar.YearMonth
	employees    []Employee
	days         []int
	index        map[string]int
	hours        [][]float64
	present      [][]bool
	rowTotals    []float64
	columnTotals []float64
	grandTotal   float64
	statuses     []Category
}

// BuildMatrix は社員一覧・勤務時間・ステータスから月次マトリクスを組み立てます。
//
// includeInactive が false の場合は非在籍の社員を除外します。社員の並びは入力順を保ち、
// 同じ ID が複数回現れた場合は最初のものだけを採用します。一覧に無い社員のエントリは
// 検証のみ行い行は作りません。同じ社員・日のエントリは後のものが優先されます。
//
// 合計は日の昇順、同じ日の中では社員の並び順で 1 回の走査で加算します。
func BuildMatrix(employees []Employee, entries []HoursEntry, statuses StatusMap, ym calendar.YearMonth, includeInactive bool) (*Matrix, error) {
	daysInMonth, err := calendar.DaysInMonth(ym)
	if err != nil {
		return nil, err
	}

	rows := make([]Employee, 0, len(employees))
	index := make(map[string]int, len(employees))
	for _, emp := range employees {
		if !includeInactive && !emp.Active {
			continue
		}
		if _, dup := index[emp.ID]; dup {
			continue
		}
		index[emp.ID] = len(rows)
		rows = append(rows, emp)
	}

	hours := make([][]float64, len(rows))
	present := make([][]bool, len(rows))
	for i := range rows {
		hours[i] = make([]float64, daysInMonth)
		present[i] = make([]bool, daysInMonth)
	}

	for _, entry := range entries {
		if entry.Day < 1 || entry.Day > daysInMonth {
			return nil, fmt.Errorf("%w: employee %s day %d in %s", ErrInvalidEntryDay, entry.EmployeeID, entry.Day, ym)
		}
		if err := ValidateHours(entry.Hours); err != nil {
			return nil, fmt.Errorf("%w: employee %s day %d", err, entry.EmployeeID, entry.Day)
		}

		i, ok := index[entry.EmployeeID]
		if !ok {
			continue
		}
		hours[i][entry.Day-1] = entry.Hours
		present[i][entry.Day-1] = true
	}

	days := make([]int, daysInMonth)
	rowTotals := make([]float64, len(rows))
	columnTotals := make([]float64, daysInMonth)
	var grandTotal float64

	for d := 0; d < daysInMonth; d++ {
		days[d] = d + 1
		for i := range rows {
			if !present[i][d] {
				continue
			}
			h := hours[i][d]
			rowTotals[i] += h
			columnTotals[d] += h
			grandTotal += h
		}
	}

	categories := make([]Category, len(rows))
	for i, emp := range rows {
		categories[i] = Classify(statuses, emp.ID)
	}

	return &Matrix{
		yearMonth:    ym,
		employees:    rows,
		days:         days,
		index:        index,
		hours:        hours,
		present:      present,
		rowTotals:    rowTotals,
		columnTotals: columnTotals,
		grandTotal:   grandTotal,
		statuses:     categories,
	}, nil
}

// ValidateHours は勤務時間が 0 以上の有限値であることを検証します。
func ValidateHours(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidHours, h)
	}
	return nil
}

// YearMonth は対象月を返します。
func (m *Matrix) YearMonth() calendar.YearMonth {
	return m.yearMonth
}

// Employees は表示対象の社員を入力順で返します。
func (m *Matrix) Employees() []Employee {
	out := make([]Employee, len(m.employees))
	copy(out, m.employees)
	return out
}

// Days は 1 から月末までの日を返します。
func (m *Matrix) Days() []int {
	out := make([]int, len(m.days))
	copy(out, m.days)
	return out
}

// Cell は社員・日の勤務時間を返します。未入力の場合 ok は false です。
func (m *Matrix) Cell(employeeID string, day int) (hours float64, ok bool) {
	i, found := m.index[employeeID]
	if !found || day < 1 || day > len(m.days) {
		return 0, false
	}
	if !m.present[i][day-1] {
		return 0, false
	}
	return m.hours[i][day-1], true
}

// RowTotal は社員の月合計です。
func (m *Matrix) RowTotal(employeeID string) float64 {
	if i, ok := m.index[employeeID]; ok {
		return m.rowTotals[i]
	}
	return 0
}

// ColumnTotal は日ごとの合計です。
func (m *Matrix) ColumnTotal(day int) float64 {
	if day < 1 || day > len(m.columnTotals) {
		return 0
	}
	return m.columnTotals[day-1]
}

// ColumnTotals は日ごとの合計を日順で返します。
func (m *Matrix) ColumnTotals() []float64 {
	out := make([]float64, len(m.columnTotals))
	copy(out, m.columnTotals)
	return out
}

// GrandTotal は全体の合計です。
func (m *Matrix) GrandTotal() float64 {
	return m.grandTotal
}

// Status は社員の表示区分です。行に含まれない社員は CategoryNoUpload になります。
func (m *Matrix) Status(employeeID string) Category {
	if i, ok := m.index[employeeID]; ok {
		return m.statuses[i]
	}
	return CategoryNoUpload
}

// Rows は描画用の行を組み立てます。
func (m *Matrix) Rows() []Row {
	rows := make([]Row, len(m.employees))
	for i, emp := range m.employees {
		cells := make([]Cell, len(m.days))
		for d, day := range m.days {
			cells[d] = Cell{Day: day, Hours: m.hours[i][d], Present: m.present[i][d]}
		}
		rows[i] = Row{
			Employee: emp,
			Status:   m.statuses[i],
			Cells:    cells,
			Total:    m.rowTotals[i],
		}
	}
	return rows
}
