package serverutils

import (
	"errors"

	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var statusByCode = map[apperror.Code]int{
	apperror.CodeNotFound:          fiber.StatusNotFound,
	apperror.CodeForbidden:         fiber.StatusForbidden,
	apperror.CodeUnauthorized:      fiber.StatusUnauthorized,
	apperror.CodeInvalidState:      fiber.StatusConflict,
	apperror.CodeConflict:          fiber.StatusConflict,
	apperror.CodeEditWindowExpired: fiber.StatusUnprocessableEntity,
	apperror.CodeValidation:        fiber.StatusBadRequest,
	apperror.CodeInternal:          fiber.StatusInternalServerError,
}

// StatusOf maps an application error code to its HTTP status.
func StatusOf(code apperror.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware renders every error returned down the chain as an
// ErrorBody. Internal failures are logged with their cause and reach the
// client only as the stable INTERNAL code.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := apperror.CodeInternal
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				code = apperror.CodeNotFound
			case fiber.StatusUnauthorized:
				code = apperror.CodeUnauthorized
			case fiber.StatusForbidden:
				code = apperror.CodeForbidden
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = apperror.CodeValidation
			}
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, code, fiberErr.Message))
		}

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || appErr.Code == apperror.CodeInternal {
			details := map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			}
			if p := GetPrincipal(ctx); p != nil {
				details["user_id"] = p.UserId
			}
			log.Error("HTTP", "Unhandled error", details)
			return ctx.Status(fiber.StatusInternalServerError).
				JSON(ErrorResponse(fiber.StatusInternalServerError, apperror.CodeInternal, "internal server error"))
		}

		status := StatusOf(appErr.Code)
		return ctx.Status(status).JSON(ErrorResponse(status, appErr.Code, appErr.Message))
	}
}
