package utils

import "time"

// TruncateDay zera o horário mantendo a data em UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay retorna o último instante do dia de t
func EndOfDay(t time.Time) time.Time {
	return TruncateDay(t).Add(24*time.Hour - time.Nanosecond)
}

func FirstDayOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}
