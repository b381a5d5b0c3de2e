package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"lull/internal/dashboard"
)

// reportField is the multipart field carrying report files.
const reportField = "files"

func (h *DashboardHandler) ListReports(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewReportResponses(h.store.Reports()))
}

// UploadReports stores placeholders for the uploaded files. The whole upload
// is refused when any file has an unsupported type.
func (h *DashboardHandler) UploadReports(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return fail(ctx, badBody(err), "upload_reports")
	}
	files := form.File[reportField]
	if len(files) == 0 {
		return fail(ctx, dashboard.ErrNoReports, "upload_reports")
	}

	uploads := make([]dashboard.Upload, 0, len(files))
	for _, f := range files {
		if _, ok := dashboard.ReportType(f.Filename); !ok {
			return fail(ctx, fmt.Errorf("%s: %w", f.Filename, dashboard.ErrReportType), "upload_reports")
		}
		uploads = append(uploads, dashboard.Upload{Name: f.Filename, Size: f.Size})
	}

	added := h.store.AddReports(uploads)
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"added":   dashboard.NewReportResponses(added),
		"reports": dashboard.NewReportResponses(h.store.Reports()),
	})
}
