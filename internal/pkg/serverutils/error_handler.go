package serverutils

import (
	"errors"
	"strings"

	"legal-research-be/internal/dto"
	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/access"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so controllers
// can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var quotaErr *access.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse("Daily quota exceeded", dto.QuotaExceededData{
				Limit:      quotaErr.Limit,
				Used:       quotaErr.Used,
				ResetAfter: quotaErr.ResetAfter,
			}))
		}

		switch {
		case errors.Is(err, llm.ErrRateLimited):
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse[any]("The model is overloaded, try again shortly", nil))
		case errors.Is(err, llm.ErrServiceMisconfigured):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse[any]("Upstream AI service is misconfigured", nil))
		case errors.Is(err, llm.ErrInvalidUpstreamResponse), errors.Is(err, llm.ErrServiceUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse[any]("AI service is unavailable", nil))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse[any](fiberErr.Message, nil))
		}

		if strings.Contains(err.Error(), "not found") {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse[any](err.Error(), nil))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse[any]("Internal server error", nil))
	}
}
