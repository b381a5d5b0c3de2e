package handler

import (
	"github.com/gofiber/fiber/v2"

	"lull/internal/dashboard"
)

type completeRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// taskFilter reads date, ward and priority. The date defaults to today;
// date=all lists every day.
func (h *DashboardHandler) taskFilter(ctx *fiber.Ctx) (dashboard.TaskFilter, error) {
	priorities, err := h.priorities(ctx)
	if err != nil {
		return dashboard.TaskFilter{}, err
	}
	f := dashboard.TaskFilter{
		Wards:      listQuery(ctx, "ward"),
		Priorities: priorities,
	}

	switch raw := ctx.Query("date"); raw {
	case "":
		f.Date = h.store.Today()
	case "all":
	default:
		d, err := dashboard.ParseDate(raw)
		if err != nil {
			return dashboard.TaskFilter{}, dashboard.ErrInvalidDate
		}
		f.Date = d
	}
	return f, nil
}

func (h *DashboardHandler) ListTasks(ctx *fiber.Ctx) error {
	f, err := h.taskFilter(ctx)
	if err != nil {
		return fail(ctx, err, "list_tasks")
	}

	tasks := h.store.ListTasks(f)
	out := dashboard.TaskListResponse{
		Tasks:   make([]dashboard.TaskResponse, 0, len(tasks)),
		Metrics: dashboard.Metrics(tasks),
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, dashboard.NewTaskResponse(t))
	}
	return ctx.Status(fiber.StatusOK).JSON(out)
}

func (h *DashboardHandler) GetTaskMetrics(ctx *fiber.Ctx) error {
	f, err := h.taskFilter(ctx)
	if err != nil {
		return fail(ctx, err, "task_metrics")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.Metrics(h.store.ListTasks(f)))
}

func (h *DashboardHandler) ListWards(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(h.store.Wards())
}

func (h *DashboardHandler) CreateTask(ctx *fiber.Ctx) error {
	t, err := h.parseTask(ctx)
	if err != nil {
		return fail(ctx, err, "create_task")
	}
	t = h.store.AddTask(t)
	return ctx.Status(fiber.StatusCreated).JSON(dashboard.NewTaskResponse(t))
}

func (h *DashboardHandler) GetTask(ctx *fiber.Ctx) error {
	t, err := h.store.Task(ctx.Params("id"))
	if err != nil {
		return fail(ctx, err, "get_task")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewTaskResponse(t))
}

func (h *DashboardHandler) UpdateTask(ctx *fiber.Ctx) error {
	t, err := h.parseTask(ctx)
	if err != nil {
		return fail(ctx, err, "update_task")
	}
	t.ID = ctx.Params("id")
	if err := h.store.UpdateTask(t); err != nil {
		return fail(ctx, err, "update_task")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewTaskResponse(t))
}

// CompleteTask toggles the completed checkbox of a task.
func (h *DashboardHandler) CompleteTask(ctx *fiber.Ctx) error {
	var req completeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fail(ctx, badBody(err), "complete_task")
	}
	if err := h.validator.Struct(req); err != nil {
		return fail(ctx, err, "complete_task")
	}
	t, err := h.store.SetTaskCompleted(ctx.Params("id"), *req.Completed)
	if err != nil {
		return fail(ctx, err, "complete_task")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewTaskResponse(t))
}

func (h *DashboardHandler) DeleteTask(ctx *fiber.Ctx) error {
	if err := h.store.DeleteTask(ctx.Params("id")); err != nil {
		return fail(ctx, err, "delete_task")
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}

func (h *DashboardHandler) parseTask(ctx *fiber.Ctx) (dashboard.Task, error) {
	var req dashboard.TaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return dashboard.Task{}, badBody(err)
	}
	if err := h.validator.Struct(req); err != nil {
		return dashboard.Task{}, err
	}
	return req.Task()
}
