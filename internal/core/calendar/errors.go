package calendar

import "errors"

var (
	// ErrInvalidMonth は年月の形式または範囲が不正な場合に返却されます。
	ErrInvalidMonth = errors.New("calendar: invalid month")
	// ErrDayOutOfRange は日付が対象月の範囲外の場合に返却されます。
	ErrDayOutOfRange = errors.New("calendar: day out of range")
)
