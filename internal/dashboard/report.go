package dashboard

import (
	"math"
	"path/filepath"
	"slices"
	"strings"
)

const (
	ReportTimeLayout = "2006-01-02 15:04"
	PendingReview    = "Pending review"
)

// ReportTypes are the accepted report file extensions.
var ReportTypes = []string{"pdf", "docx", "xlsx", "png", "jpg"}

// Report is a placeholder for an uploaded file. Only its metadata is kept.
type Report struct {
	Name       string
	SizeKB     float64
	UploadedAt string
	Status     string
}

// ReportType returns the lower-cased extension of name when it is accepted.
func ReportType(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext, slices.Contains(ReportTypes, ext)
}

// Upload is a received file before it becomes a Report.
type Upload struct {
	Name string
	Size int64 // bytes
}

// SizeKB rounds a byte count to kilobytes with one decimal.
func SizeKB(size int64) float64 {
	return math.Round(float64(size)/1024*10) / 10
}

// AddReports records uploads, skipping any whose name and size are already
// stored. It returns the reports that were added.
func (s *Store) AddReports(uploads []Upload) []Report {
	uploadedAt := s.now().Format(ReportTimeLayout)

	s.mu.Lock()
	defer s.mu.Unlock()
	var added []Report
	for _, u := range uploads {
		r := Report{
			Name:       u.Name,
			SizeKB:     SizeKB(u.Size),
			UploadedAt: uploadedAt,
			Status:     PendingReview,
		}
		if slices.ContainsFunc(s.reports, func(o Report) bool { return o.Name == r.Name && o.SizeKB == r.SizeKB }) {
			continue
		}
		s.reports = append(s.reports, r)
		added = append(added, r)
	}
	return added
}

// Reports lists uploads in the order they arrived.
func (s *Store) Reports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}
