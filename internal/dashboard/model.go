// Package dashboard tracks nursing-department trainings and daily tasks.
package dashboard

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// Priorities in display order.
var Priorities = []Priority{High, Medium, Low}

func (p Priority) rank() int {
	for i, q := range Priorities {
		if p == q {
			return i
		}
	}
	return len(Priorities)
}

type Shift string

const (
	Day     Shift = "Day"
	Evening Shift = "Evening"
	Night   Shift = "Night"
)

var Shifts = []Shift{Day, Evening, Night}

func (s Shift) rank() int {
	for i, q := range Shifts {
		if s == q {
			return i
		}
	}
	return len(Shifts)
}

var DefaultWards = []string{
	"Emergency",
	"ICU",
	"Medical Ward",
	"Surgical Ward",
	"Pediatrics",
	"Maternity",
}

type Status string

const (
	Upcoming  Status = "Upcoming"
	Ongoing   Status = "Ongoing"
	Completed Status = "Completed"
)

// Training dates are calendar days at midnight UTC.
type Training struct {
	ID        string
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Priority  Priority
	Location  string
	Owner     string
	Notes     string
	Completed bool
}

type Task struct {
	ID         string
	Title      string
	Ward       string
	Shift      Shift
	Priority   Priority
	Date       time.Time
	DueTime    string // HH:MM
	AssignedTo string
	Notes      string
	Completed  bool
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
