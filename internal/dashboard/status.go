package dashboard

import (
	"fmt"
	"sort"
	"time"
)

const (
	DefaultAlarmWindow = 14
	MaxAlarmWindow     = 60
)

// DeriveStatus reports where a training stands relative to today.
// An explicit completed flag wins over the dates.
func DeriveStatus(t Training, today time.Time) Status {
	today = DateOf(today)
	switch {
	case t.Completed:
		return Completed
	case !today.Before(t.StartDate) && !today.After(t.EndDate):
		return Ongoing
	case t.EndDate.Before(today):
		return Completed
	default:
		return Upcoming
	}
}

// InYear reports whether a training starts or ends in year.
func InYear(t Training, year int) bool {
	return t.StartDate.Year() == year || t.EndDate.Year() == year
}

type Alarm struct {
	Training  Training
	DaysUntil int
}

func (a Alarm) When() string {
	switch a.DaysUntil {
	case 0:
		return "today"
	case 1:
		return "in 1 day"
	default:
		return fmt.Sprintf("in %d days", a.DaysUntil)
	}
}

// Alarms returns upcoming trainings starting within window days, soonest first.
func Alarms(trainings []Training, today time.Time, window int) []Alarm {
	today = DateOf(today)
	var out []Alarm
	for _, t := range trainings {
		if DeriveStatus(t, today) != Upcoming {
			continue
		}
		days := int(t.StartDate.Sub(today).Hours() / 24)
		if days < 0 || days > window {
			continue
		}
		out = append(out, Alarm{Training: t, DaysUntil: days})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Training.Priority.rank() < out[j].Training.Priority.rank()
	})
	return out
}
