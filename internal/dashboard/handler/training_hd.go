package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"lull/internal/dashboard"
)

func (h *DashboardHandler) ListTrainings(ctx *fiber.Ctx) error {
	priorities, err := h.priorities(ctx)
	if err != nil {
		return fail(ctx, err, "list_trainings")
	}

	filter := dashboard.TrainingFilter{
		Year:       ctx.QueryInt("year", 0),
		Priorities: priorities,
	}
	for _, v := range listQuery(ctx, "status") {
		if h.validator.Var(v, "oneof=Upcoming Ongoing Completed") != nil {
			return fail(ctx, badBody(fmt.Errorf("unknown status %q", v)), "list_trainings")
		}
		filter.Statuses = append(filter.Statuses, dashboard.Status(v))
	}

	today := h.store.Today()
	trainings := h.store.ListTrainings(filter)
	out := make([]dashboard.TrainingResponse, 0, len(trainings))
	for _, t := range trainings {
		out = append(out, dashboard.NewTrainingResponse(t, today))
	}
	return ctx.Status(fiber.StatusOK).JSON(out)
}

func (h *DashboardHandler) CreateTraining(ctx *fiber.Ctx) error {
	t, err := h.parseTraining(ctx)
	if err != nil {
		return fail(ctx, err, "create_training")
	}
	t = h.store.AddTraining(t)
	return ctx.Status(fiber.StatusCreated).JSON(dashboard.NewTrainingResponse(t, h.store.Today()))
}

func (h *DashboardHandler) GetTraining(ctx *fiber.Ctx) error {
	t, err := h.store.Training(ctx.Params("id"))
	if err != nil {
		return fail(ctx, err, "get_training")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewTrainingResponse(t, h.store.Today()))
}

func (h *DashboardHandler) UpdateTraining(ctx *fiber.Ctx) error {
	t, err := h.parseTraining(ctx)
	if err != nil {
		return fail(ctx, err, "update_training")
	}
	t.ID = ctx.Params("id")
	if err := h.store.UpdateTraining(t); err != nil {
		return fail(ctx, err, "update_training")
	}
	return ctx.Status(fiber.StatusOK).JSON(dashboard.NewTrainingResponse(t, h.store.Today()))
}

func (h *DashboardHandler) DeleteTraining(ctx *fiber.Ctx) error {
	if err := h.store.DeleteTraining(ctx.Params("id")); err != nil {
		return fail(ctx, err, "delete_training")
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Training deleted successfully",
	})
}

func (h *DashboardHandler) ListAlarms(ctx *fiber.Ctx) error {
	window := ctx.QueryInt("window", dashboard.DefaultAlarmWindow)
	if window < 1 || window > dashboard.MaxAlarmWindow {
		return fail(ctx, dashboard.ErrInvalidWindow, "list_alarms")
	}

	alarms := h.store.Alarms(window)
	out := make([]dashboard.AlarmResponse, 0, len(alarms))
	for _, a := range alarms {
		out = append(out, dashboard.NewAlarmResponse(a))
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"window": window,
		"alarms": out,
	})
}

func (h *DashboardHandler) parseTraining(ctx *fiber.Ctx) (dashboard.Training, error) {
	var req dashboard.TrainingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return dashboard.Training{}, badBody(err)
	}
	if err := h.validator.Struct(req); err != nil {
		return dashboard.Training{}, err
	}
	return req.Training()
}
