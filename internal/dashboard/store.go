package dashboard

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

type TrainingFilter struct {
	Year       int // 0 matches every year
	Priorities []Priority
	Statuses   []Status
}

type TaskFilter struct {
	Date       time.Time // zero matches every date
	Wards      []string
	Priorities []Priority
}

type TaskMetrics struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
}

// Store keeps trainings, tasks and report uploads in memory. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	trainings    []Training
	tasks        []Task
	reports      []Report
	nextTraining int
	nextTask     int
	now          func() time.Time
}

func NewStore(trainings []Training, tasks []Task) *Store {
	return &Store{
		trainings:    slices.Clone(trainings),
		tasks:        slices.Clone(tasks),
		nextTraining: len(trainings) + 1,
		nextTask:     len(tasks) + 1,
		now:          time.Now,
	}
}

// Today is the store's notion of the current calendar day.
func (s *Store) Today() time.Time {
	return DateOf(s.now())
}

func (s *Store) AddTraining(t Training) Training {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = fmt.Sprintf("TRN-%03d", s.nextTraining)
	s.nextTraining++
	s.trainings = append(s.trainings, t)
	return t
}

func (s *Store) Training(id string) (Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.trainingIndex(id)
	if i < 0 {
		return Training{}, ErrTrainingNotFound
	}
	return s.trainings[i], nil
}

// UpdateTraining replaces the training with t.ID.
func (s *Store) UpdateTraining(t Training) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.trainingIndex(t.ID)
	if i < 0 {
		return ErrTrainingNotFound
	}
	s.trainings[i] = t
	return nil
}

func (s *Store) DeleteTraining(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.trainingIndex(id)
	if i < 0 {
		return ErrTrainingNotFound
	}
	s.trainings = slices.Delete(s.trainings, i, i+1)
	return nil
}

// ListTrainings returns matching trainings by start date, then priority, then title.
func (s *Store) ListTrainings(f TrainingFilter) []Training {
	today := s.Today()
	s.mu.RLock()
	out := make([]Training, 0, len(s.trainings))
	for _, t := range s.trainings {
		if f.Year != 0 && !InYear(t, f.Year) {
			continue
		}
		if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, DeriveStatus(t, today)) {
			continue
		}
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() < b.Priority.rank()
		}
		return a.Title < b.Title
	})
	return out
}

// Alarms lists upcoming trainings starting within window days of today.
func (s *Store) Alarms(window int) []Alarm {
	return Alarms(s.ListTrainings(TrainingFilter{}), s.Today(), window)
}

func (s *Store) AddTask(t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = fmt.Sprintf("TSK-%03d", s.nextTask)
	s.nextTask++
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Store) Task(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	return s.tasks[i], nil
}

func (s *Store) UpdateTask(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(t.ID)
	if i < 0 {
		return ErrTaskNotFound
	}
	s.tasks[i] = t
	return nil
}

// SetTaskCompleted flips the completed flag without touching other fields.
func (s *Store) SetTaskCompleted(id string, done bool) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	s.tasks[i].Completed = done
	return s.tasks[i], nil
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return nil
}

// ListTasks returns matching tasks grouped by ward, then shift, then due time.
func (s *Store) ListTasks(f TaskFilter) []Task {
	s.mu.RLock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !f.Date.IsZero() && !t.Date.Equal(DateOf(f.Date)) {
			continue
		}
		if len(f.Wards) > 0 && !slices.Contains(f.Wards, t.Ward) {
			continue
		}
		if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
			continue
		}
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Ward != b.Ward {
			return a.Ward < b.Ward
		}
		if a.Shift.rank() != b.Shift.rank() {
			return a.Shift.rank() < b.Shift.rank()
		}
		return a.DueTime < b.DueTime
	})
	return out
}

func Metrics(tasks []Task) TaskMetrics {
	m := TaskMetrics{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			m.Completed++
		}
		if t.Priority == High {
			m.HighPriority++
		}
	}
	return m
}

// Wards lists the default wards plus any ward used by a stored task.
func (s *Store) Wards() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(DefaultWards)
	for _, t := range s.tasks {
		if !slices.Contains(out, t.Ward) {
			out = append(out, t.Ward)
		}
	}
	return out
}

func (s *Store) trainingIndex(id string) int {
	return slices.IndexFunc(s.trainings, func(t Training) bool { return t.ID == id })
}

func (s *Store) taskIndex(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
