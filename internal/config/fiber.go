package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "Lull Dashboard",
		BodyLimit:             1024 * 1024,
		StrictRouting:         true,
		CaseSensitive:         true,
		Immutable:             true,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})
}

func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
