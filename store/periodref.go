package store

import "time"

// PeriodRef names the salary period an expense should draw from, either
// by explicit id or by calendar month. An explicit reference always wins
// over a date.
type PeriodRef struct {
	id    string
	month int
	year  int
}

// ByReference targets the period with the given id.
func ByReference(id string) PeriodRef {
	return PeriodRef{id: id}
}

// ByDate targets the unique period covering the month the date falls in.
func ByDate(date time.Time) PeriodRef {
	return PeriodRef{month: int(date.Month()), year: date.Year()}
}

// Explicit reports whether the reference carries an explicit period id.
func (r PeriodRef) Explicit() bool { return r.id != "" }

func (r PeriodRef) ID() string { return r.id }

func (r PeriodRef) MonthYear() (int, int) { return r.month, r.year }
