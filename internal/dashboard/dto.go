package dashboard

import "time"

type TrainingRequest struct {
	Title     string `json:"title" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Priority  string `json:"priority" validate:"required,oneof=High Medium Low"`
	Location  string `json:"location"`
	Owner     string `json:"owner"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
}

// Training converts a validated request. The dates must already parse.
func (r TrainingRequest) Training() (Training, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return Training{}, ErrInvalidDate
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return Training{}, ErrInvalidDate
	}
	if end.Before(start) {
		return Training{}, ErrEndBeforeStart
	}
	return Training{
		Title:     r.Title,
		StartDate: start,
		EndDate:   end,
		Priority:  Priority(r.Priority),
		Location:  r.Location,
		Owner:     r.Owner,
		Notes:     r.Notes,
		Completed: r.Completed,
	}, nil
}

type TrainingResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Priority  string `json:"priority"`
	Location  string `json:"location"`
	Owner     string `json:"owner"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

func NewTrainingResponse(t Training, today time.Time) TrainingResponse {
	return TrainingResponse{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: t.StartDate.Format(DateLayout),
		EndDate:   t.EndDate.Format(DateLayout),
		Priority:  string(t.Priority),
		Location:  t.Location,
		Owner:     t.Owner,
		Notes:     t.Notes,
		Completed: t.Completed,
		Status:    string(DeriveStatus(t, today)),
	}
}

type AlarmResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	Priority  string `json:"priority"`
	DaysUntil int    `json:"days_until"`
	When      string `json:"when"`
}

func NewAlarmResponse(a Alarm) AlarmResponse {
	return AlarmResponse{
		ID:        a.Training.ID,
		Title:     a.Training.Title,
		StartDate: a.Training.StartDate.Format(DateLayout),
		Priority:  string(a.Training.Priority),
		DaysUntil: a.DaysUntil,
		When:      a.When(),
	}
}

type TaskRequest struct {
	Title      string `json:"title" validate:"required"`
	Ward       string `json:"ward" validate:"required"`
	Shift      string `json:"shift" validate:"required,oneof=Day Evening Night"`
	Priority   string `json:"priority" validate:"required,oneof=High Medium Low"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	DueTime    string `json:"due_time" validate:"required,datetime=15:04"`
	AssignedTo string `json:"assigned_to"`
	Notes      string `json:"notes"`
	Completed  bool   `json:"completed"`
}

func (r TaskRequest) Task() (Task, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Task{}, ErrInvalidDate
	}
	return Task{
		Title:      r.Title,
		Ward:       r.Ward,
		Shift:      Shift(r.Shift),
		Priority:   Priority(r.Priority),
		Date:       date,
		DueTime:    r.DueTime,
		AssignedTo: r.AssignedTo,
		Notes:      r.Notes,
		Completed:  r.Completed,
	}, nil
}

type TaskResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Ward       string `json:"ward"`
	Shift      string `json:"shift"`
	Priority   string `json:"priority"`
	Date       string `json:"date"`
	DueTime    string `json:"due_time"`
	AssignedTo string `json:"assigned_to"`
	Notes      string `json:"notes"`
	Completed  bool   `json:"completed"`
}

func NewTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		Title:      t.Title,
		Ward:       t.Ward,
		Shift:      string(t.Shift),
		Priority:   string(t.Priority),
		Date:       t.Date.Format(DateLayout),
		DueTime:    t.DueTime,
		AssignedTo: t.AssignedTo,
		Notes:      t.Notes,
		Completed:  t.Completed,
	}
}

type TaskListResponse struct {
	Tasks   []TaskResponse `json:"tasks"`
	Metrics TaskMetrics    `json:"metrics"`
}

type ReportResponse struct {
	Name       string  `json:"name"`
	SizeKB     float64 `json:"size_kb"`
	UploadedAt string  `json:"uploaded_at"`
	Status     string  `json:"status"`
}

func NewReportResponse(r Report) ReportResponse {
	return ReportResponse{
		Name:       r.Name,
		SizeKB:     r.SizeKB,
		UploadedAt: r.UploadedAt,
		Status:     r.Status,
	}
}

func NewReportResponses(reports []Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, NewReportResponse(r))
	}
	return out
}
