package dashboard

import "time"

// Seed returns the sample trainings and tasks a fresh dashboard starts with.
// Trainings fall in today's year; tasks are due today.
func Seed(today time.Time) ([]Training, []Task) {
	today = DateOf(today)
	year := today.Year()
	on := func(m time.Month, d int) time.Time {
		return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
	}

	trainings := []Training{
		{
			ID:        "TRN-001",
			Title:     "Medication Reconciliation Refresher",
			StartDate: on(time.January, 15),
			EndDate:   on(time.January, 15),
			Priority:  High,
			Location:  "Training Room A",
			Owner:     "Education Lead",
			Notes:     "Required for onboarding and annual review.",
			Completed: true,
		},
		{
			ID:        "TRN-002",
			Title:     "Rapid Response and Code Blue",
			StartDate: on(time.February, 6),
			EndDate:   on(time.February, 8),
			Priority:  High,
			Location:  "Simulation Lab",
			Owner:     "Critical Care Team",
			Notes:     "Includes mock drills for all shifts.",
		},
		{
			ID:        "TRN-003",
			Title:     "IV Therapy Competency",
			StartDate: on(time.March, 12),
			EndDate:   on(time.March, 13),
			Priority:  Medium,
			Location:  "Skills Room",
			Owner:     "Nurse Educator",
			Notes:     "Bring IV starter kits and PPE.",
		},
		{
			ID:        "TRN-004",
			Title:     "Wound Care Best Practices",
			StartDate: on(time.May, 5),
			EndDate:   on(time.May, 5),
			Priority:  Low,
			Location:  "Conference Room 2",
			Owner:     "Clinical Lead",
			Notes:     "Optional for outpatient teams.",
		},
	}

	tasks := []Task{
		{
			ID: "TSK-001", Title: "Admission data collection",
			Ward: "Medical Ward", Shift: Day, Priority: High, Date: today, DueTime: "09:30",
			AssignedTo: "RN Team A", Notes: "Confirm allergies, home meds, and history.",
		},
		{
			ID: "TSK-002", Title: "Discharge teaching documentation",
			Ward: "Surgical Ward", Shift: Day, Priority: Medium, Date: today, DueTime: "11:00",
			AssignedTo: "RN Team B", Notes: "Include wound care and follow-up visits.",
		},
		{
			ID: "TSK-003", Title: "IV antibiotic administration",
			Ward: "ICU", Shift: Evening, Priority: High, Date: today, DueTime: "17:30",
			AssignedTo: "Charge Nurse", Notes: "Verify line patency and infusion rate.",
		},
		{
			ID: "TSK-004", Title: "Vitals rounding and safety checks",
			Ward: "Pediatrics", Shift: Night, Priority: Low, Date: today, DueTime: "22:00",
			AssignedTo: "RN Team C", Notes: "Include fall prevention checklist.",
		},
	}
	return trainings, tasks
}

// NewSeededStore returns a store holding the sample data for today.
func NewSeededStore(now func() time.Time) *Store {
	trainings, tasks := Seed(now())
	s := NewStore(trainings, tasks)
	s.now = now
	return s
}
