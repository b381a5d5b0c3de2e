package dashboard

import (
	"net/http"

	"lull/pkg/response"
)

var (
	ErrTrainingNotFound = response.NewError(http.StatusNotFound, "training not found")
	ErrTaskNotFound     = response.NewError(http.StatusNotFound, "task not found")
	ErrEndBeforeStart   = response.NewError(http.StatusBadRequest, "end date is before start date")
	ErrInvalidDate      = response.NewError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	ErrInvalidWindow    = response.NewError(http.StatusBadRequest, "alarm window must be between 1 and 60 days")
	ErrNoReports        = response.NewError(http.StatusBadRequest, "no files uploaded")
	ErrReportType       = response.NewError(http.StatusUnsupportedMediaType, "unsupported report type, want pdf, docx, xlsx, png or jpg")
)
