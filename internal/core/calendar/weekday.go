package calendar

import (
	"time"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.English,
	language.Hebrew,
	language.Russian,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// 日曜始まり。supportedLocales と同じ並び。
var shortWeekdays = [][7]string{
	{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	{"א׳", "ב׳", "ג׳", "ד׳", "ה׳", "ו׳", "ש׳"},
	{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	{"日", "月", "火", "水", "木", "金", "土"},
}

// WeekdayLabel は対象月 day 日の曜日をロケールに応じた短縮表記で返します。
// 解釈できないロケールは英語として扱います。
func WeekdayLabel(ym YearMonth, day int, locale string) (string, error) {
	date, err := Date(ym, day)
	if err != nil {
		return "", err
	}
	return shortWeekdays[localeIndex(locale)][date.Weekday()], nil
}

// Weekday は対象月 day 日の曜日を返します。
func Weekday(ym YearMonth, day int) (time.Weekday, error) {
	date, err := Date(ym, day)
	if err != nil {
		return 0, err
	}
	return date.Weekday(), nil
}

func localeIndex(locale string) int {
	if locale == "" {
		return 0
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return 0
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return idx
}
