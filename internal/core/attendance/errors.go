package attendance

import "errors"

var (
	// ErrInvalidEntryDay は勤務時間の日付が対象月に存在しない場合に返却されます。
	ErrInvalidEntryDay = errors.New("attendance: entry day does not exist in month")
	// ErrInvalidHours は勤務時間が負数または有限でない場合に返却されます。
	ErrInvalidHours = errors.New("attendance: invalid hours")
	// ErrInvalidStatus はレビューステータスが既知のコードでない場合に返却されます。
	ErrInvalidStatus = errors.New("attendance: invalid work card status")
	// ErrInvalidSiteID は拠点 ID が不正な場合に返却されます。
	ErrInvalidSiteID = errors.New("attendance: invalid site id")
	// ErrInvalidEmployeeID は社員 ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("attendance: invalid employee id")
	// ErrInvalidDate は日付の形式が不正な場合に返却されます。
	ErrInvalidDate = errors.New("attendance: invalid date")
	// ErrEmployeeNotFound は対象の社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("attendance: employee not found")
	// ErrHoursNotFound は削除対象の勤務時間が存在しない場合に返却されます。
	ErrHoursNotFound = errors.New("attendance: hours not found")
)
