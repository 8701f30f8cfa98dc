package calendar

import (
	"fmt"
	"strconv"
	"time"
)

const (
	minYear = 1
	maxYear = 9999
)

// YearMonth は暦上の 1 か月 (年と 1 始まりの月) を表します。
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth は年と月から YearMonth を生成します。
func NewYearMonth(year, month int) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: time.Month(month)}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

// ParseYearMonth は "YYYY-MM" 形式の文字列を解釈します。
func ParseYearMonth(raw string) (YearMonth, error) {
	if len(raw) != 7 || raw[4] != '-' {
		return YearMonth{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidMonth, raw)
	}
	if !allDigits(raw[:4]) || !allDigits(raw[5:]) {
		return YearMonth{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidMonth, raw)
	}

	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[5:])

	ym, err := NewYearMonth(year, month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", err, raw)
	}
	return ym, nil
}

// Validate は年と月が扱える範囲にあるかを検証します。
func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return ErrInvalidMonth
	}
	if ym.Year < minYear || ym.Year > maxYear {
		return ErrInvalidMonth
	}
	return nil
}

// String は "YYYY-MM" 形式で返します。
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// FirstDay は月初日 00:00 UTC を返します。
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next は翌月を返します。範囲クエリの排他的上限に使います。
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) previous() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// IsLeapYear はグレゴリオ暦の閏年判定です。
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthLengths = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth は対象月の日数を返します。
func DaysInMonth(ym YearMonth) (int, error) {
	if err := ym.Validate(); err != nil {
		return 0, err
	}
	if ym.Month == time.February && IsLeapYear(ym.Year) {
		return 29, nil
	}
	return monthLengths[ym.Month-1], nil
}

// Date は対象月の day 日 00:00 UTC を返します。
func Date(ym YearMonth, day int) (time.Time, error) {
	n, err := DaysInMonth(ym)
	if err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > n {
		return time.Time{}, fmt.Errorf("%w: %s has %d days, got %d", ErrDayOutOfRange, ym, n, day)
	}
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC), nil
}

// CurrentMonth は ref が属する月を返します。画面の初期値用です。
func CurrentMonth(ref time.Time) YearMonth {
	return YearMonth{Year: ref.Year(), Month: ref.Month()}
}

// PreviousMonth は ref の前月を返します。
func PreviousMonth(ref time.Time) YearMonth {
	return CurrentMonth(ref).previous()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
