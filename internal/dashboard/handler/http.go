package handler

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lull/internal/dashboard"
	"lull/internal/middleware"
	"lull/pkg/response"
)

type DashboardHandler struct {
	store     *dashboard.Store
	validator *validator.Validate
}

func New(store *dashboard.Store, validate *validator.Validate) *DashboardHandler {
	return &DashboardHandler{
		store:     store,
		validator: validate,
	}
}

func (h *DashboardHandler) Start(srv fiber.Router) {
	api := srv.Group("/api")

	api.Get("/trainings", h.ListTrainings)
	api.Post("/trainings", h.CreateTraining)
	api.Get("/trainings/:id", h.GetTraining)
	api.Put("/trainings/:id", h.UpdateTraining)
	api.Delete("/trainings/:id", h.DeleteTraining)
	api.Get("/alarms", h.ListAlarms)

	api.Get("/wards", h.ListWards)
	api.Get("/tasks", h.ListTasks)
	api.Post("/tasks", h.CreateTask)
	api.Get("/tasks/metrics", h.GetTaskMetrics)
	api.Get("/tasks/:id", h.GetTask)
	api.Put("/tasks/:id", h.UpdateTask)
	api.Patch("/tasks/:id", h.CompleteTask)
	api.Delete("/tasks/:id", h.DeleteTask)

	api.Get("/reports", h.ListReports)
	api.Post("/reports", h.UploadReports)
}

// fail writes err as JSON. Validation errors become 400, domain errors
// carry their own code, anything else is a 500.
func fail(ctx *fiber.Ctx, err error, operation string) error {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"path", ctx.Path(),
		"operation", operation,
		"err", err,
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fe.Field()+": failed "+fe.Tag())
		}
		log.Warn("Validation failed", attrs...)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": details,
		})
	}

	code := response.Status(err)
	if code >= 500 {
		log.Error("Operation failed", attrs...)
		return ctx.Status(code).JSON(fiber.Map{"error": "internal server error"})
	}
	log.Warn("Operation failed with error response", attrs...)
	return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badBody(err error) error {
	return response.Wrap(fiber.StatusBadRequest, err)
}

// listQuery splits a comma separated query value, dropping blanks.
func listQuery(ctx *fiber.Ctx, key string) []string {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *DashboardHandler) priorities(ctx *fiber.Ctx) ([]dashboard.Priority, error) {
	var out []dashboard.Priority
	for _, v := range listQuery(ctx, "priority") {
		if h.validator.Var(v, "oneof=High Medium Low") != nil {
			return nil, badBody(fmt.Errorf("unknown priority %q", v))
		}
		out = append(out, dashboard.Priority(v))
	}
	return out, nil
}
