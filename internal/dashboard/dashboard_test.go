package dashboard

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

var feb1 = time.Date(2026, time.February, 1, 15, 4, 0, 0, time.UTC)

func date(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func seeded(t *testing.T) *Store {
	t.Helper()
	return NewSeededStore(func() time.Time { return feb1 })
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	span := Training{StartDate: date(time.February, 6), EndDate: date(time.February, 8)}
	tests := []struct {
		name  string
		t     Training
		today time.Time
		want  Status
	}{
		{"before start", span, date(time.February, 5), Upcoming},
		{"first day", span, date(time.February, 6), Ongoing},
		{"last day", span, date(time.February, 8).Add(23 * time.Hour), Ongoing},
		{"after end", span, date(time.February, 9), Completed},
		{"flagged", Training{StartDate: date(time.June, 1), EndDate: date(time.June, 1), Completed: true}, feb1, Completed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.t, tt.today); got != tt.want {
				t.Errorf("DeriveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInYear(t *testing.T) {
	tr := Training{StartDate: time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC), EndDate: date(time.January, 2)}
	if !InYear(tr, 2025) || !InYear(tr, 2026) || InYear(tr, 2024) {
		t.Error("year match should use start or end year")
	}
}

func TestAlarms(t *testing.T) {
	s := seeded(t)

	got := s.Alarms(DefaultAlarmWindow)
	if len(got) != 1 || got[0].Training.ID != "TRN-002" || got[0].DaysUntil != 5 {
		t.Fatalf("alarms(14) = %+v", got)
	}
	if got[0].When() != "in 5 days" {
		t.Errorf("When = %q", got[0].When())
	}

	got = s.Alarms(MaxAlarmWindow)
	if want := []string{"TRN-002", "TRN-003"}; !reflect.DeepEqual(ids(got, func(a Alarm) string { return a.Training.ID }), want) {
		t.Errorf("alarms(60) = %+v", got)
	}
	if got[1].DaysUntil != 39 {
		t.Errorf("TRN-003 days = %d", got[1].DaysUntil)
	}
}

func TestAlarm_When(t *testing.T) {
	for days, want := range map[int]string{0: "today", 1: "in 1 day", 7: "in 7 days"} {
		if got := (Alarm{DaysUntil: days}).When(); got != want {
			t.Errorf("When(%d) = %q, want %q", days, got, want)
		}
	}
}

func TestAlarms_SkipsStartedAndCompleted(t *testing.T) {
	today := date(time.April, 1)
	trainings := []Training{
		{ID: "a", StartDate: today, EndDate: today, Priority: Low},
		{ID: "b", StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, 1)},
		{ID: "c", StartDate: today.AddDate(0, 0, 3), EndDate: today.AddDate(0, 0, 3), Completed: true},
	}
	got := Alarms(trainings, today, 14)
	// A training starting today is already ongoing.
	if len(got) != 0 {
		t.Errorf("alarms = %+v", got)
	}
}

func TestStore_ListTrainings(t *testing.T) {
	s := seeded(t)
	s.AddTraining(Training{Title: "Airway Basics", StartDate: date(time.February, 6), EndDate: date(time.February, 6), Priority: High})
	s.AddTraining(Training{Title: "Hand Hygiene", StartDate: date(time.February, 6), EndDate: date(time.February, 6), Priority: Low})

	all := s.ListTrainings(TrainingFilter{})
	want := []string{"TRN-001", "TRN-005", "TRN-002", "TRN-006", "TRN-003", "TRN-004"}
	if got := ids(all, func(t Training) string { return t.ID }); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	high := s.ListTrainings(TrainingFilter{Priorities: []Priority{High}, Statuses: []Status{Upcoming}})
	if got := ids(high, func(t Training) string { return t.ID }); !reflect.DeepEqual(got, []string{"TRN-005", "TRN-002"}) {
		t.Errorf("upcoming high = %v", got)
	}

	if got := s.ListTrainings(TrainingFilter{Year: 2025}); len(got) != 0 {
		t.Errorf("2025 = %v", got)
	}
}

func TestStore_TrainingCRUD(t *testing.T) {
	s := seeded(t)

	created := s.AddTraining(Training{Title: "Sepsis Screening", StartDate: date(time.July, 1), EndDate: date(time.July, 1), Priority: Medium})
	if created.ID != "TRN-005" {
		t.Errorf("id = %s", created.ID)
	}

	created.Location = "Ward 4"
	if err := s.UpdateTraining(created); err != nil {
		t.Fatal(err)
	}
	got, err := s.Training("TRN-005")
	if err != nil || got.Location != "Ward 4" {
		t.Errorf("get = %+v, %v", got, err)
	}

	if err := s.DeleteTraining("TRN-005"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Training("TRN-005"); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("after delete err = %v", err)
	}
	if err := s.UpdateTraining(Training{ID: "TRN-999"}); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("update missing err = %v", err)
	}

	// Counters keep increasing after a delete.
	if next := s.AddTraining(Training{Title: "x"}); next.ID != "TRN-006" {
		t.Errorf("next id = %s", next.ID)
	}
}

func TestStore_ListTasks(t *testing.T) {
	s := seeded(t)

	tasks := s.ListTasks(TaskFilter{Date: feb1})
	want := []string{"TSK-003", "TSK-001", "TSK-004", "TSK-002"}
	if got := ids(tasks, func(t Task) string { return t.ID }); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	if m := Metrics(tasks); m != (TaskMetrics{Total: 4, Completed: 0, HighPriority: 2}) {
		t.Errorf("metrics = %+v", m)
	}

	if _, err := s.SetTaskCompleted("TSK-001", true); err != nil {
		t.Fatal(err)
	}
	filtered := s.ListTasks(TaskFilter{Date: feb1, Wards: []string{"Medical Ward", "ICU"}, Priorities: []Priority{High}})
	if m := Metrics(filtered); m != (TaskMetrics{Total: 2, Completed: 1, HighPriority: 2}) {
		t.Errorf("filtered metrics = %+v", m)
	}

	if got := s.ListTasks(TaskFilter{Date: feb1.AddDate(0, 0, 1)}); len(got) != 0 {
		t.Errorf("tomorrow = %v", got)
	}
}

func TestStore_TasksSortByShiftThenDue(t *testing.T) {
	s := NewStore(nil, nil)
	d := date(time.March, 3)
	s.AddTask(Task{Title: "night", Ward: "ICU", Shift: Night, Date: d, DueTime: "01:00"})
	s.AddTask(Task{Title: "late day", Ward: "ICU", Shift: Day, Date: d, DueTime: "14:00"})
	s.AddTask(Task{Title: "early day", Ward: "ICU", Shift: Day, Date: d, DueTime: "08:15"})
	s.AddTask(Task{Title: "evening", Ward: "ICU", Shift: Evening, Date: d, DueTime: "18:00"})

	got := ids(s.ListTasks(TaskFilter{}), func(t Task) string { return t.Title })
	want := []string{"early day", "late day", "evening", "night"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestStore_Wards(t *testing.T) {
	s := seeded(t)
	s.AddTask(Task{Title: "x", Ward: "Oncology"})
	w := s.Wards()
	if len(w) != len(DefaultWards)+1 || w[len(w)-1] != "Oncology" {
		t.Errorf("wards = %v", w)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := seeded(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddTask(Task{Title: "t", Ward: "ICU", Shift: Day, Date: feb1})
		}()
		go func() {
			defer wg.Done()
			s.ListTasks(TaskFilter{Date: feb1})
		}()
	}
	wg.Wait()
	if n := len(s.ListTasks(TaskFilter{})); n != 24 {
		t.Errorf("tasks = %d", n)
	}
}

func TestRequests(t *testing.T) {
	tr, err := TrainingRequest{Title: "x", StartDate: "2026-03-01", EndDate: "2026-03-02", Priority: "Low"}.Training()
	if err != nil || !tr.EndDate.Equal(date(time.March, 2)) || tr.Priority != Low {
		t.Errorf("training = %+v, %v", tr, err)
	}
	if _, err := (TrainingRequest{StartDate: "2026-03-02", EndDate: "2026-03-01"}).Training(); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("end before start err = %v", err)
	}
	if _, err := (TaskRequest{Date: "03/02/2026"}).Task(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date err = %v", err)
	}
}

func TestStore_AddReports(t *testing.T) {
	s := seeded(t)
	added := s.AddReports([]Upload{
		{Name: "ward-audit.pdf", Size: 2048},
		{Name: "roster.xlsx", Size: 1500},
		{Name: "ward-audit.pdf", Size: 2048},
	})
	if len(added) != 2 {
		t.Fatalf("added = %+v", added)
	}
	want := Report{Name: "roster.xlsx", SizeKB: 1.5, UploadedAt: "2026-02-01 15:04", Status: PendingReview}
	if added[1] != want {
		t.Errorf("report = %+v, want %+v", added[1], want)
	}

	again := s.AddReports([]Upload{{Name: "roster.xlsx", Size: 1500}, {Name: "roster.xlsx", Size: 4096}})
	if len(again) != 1 || again[0].SizeKB != 4 {
		t.Errorf("second upload added %+v", again)
	}
	if got := ids(s.Reports(), func(r Report) string { return r.Name }); !reflect.DeepEqual(got, []string{"ward-audit.pdf", "roster.xlsx", "roster.xlsx"}) {
		t.Errorf("reports = %v", got)
	}
}

func TestReportType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		ok   bool
	}{
		{"handover.PDF", "pdf", true},
		{"photo.jpg", "jpg", true},
		{"notes.txt", "txt", false},
		{"README", "", false},
	}
	for _, tt := range tests {
		ext, ok := ReportType(tt.name)
		if ext != tt.ext || ok != tt.ok {
			t.Errorf("ReportType(%q) = %q, %v", tt.name, ext, ok)
		}
	}
}
