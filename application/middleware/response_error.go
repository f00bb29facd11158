package middleware

import (
	"errors"

	"storecredit/util/errs"
	"storecredit/util/logger"

	"github.com/gofiber/fiber/v3"
)

// ResponseError แปลง error จาก handler เป็น JSON response ตามชนิดของ error
// error ที่ไม่รู้จักตอบเป็น 500 โดยไม่เปิดเผยรายละเอียดภายใน
func ResponseError() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{"error": appErr.Message})
		}

		logger.Log.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
