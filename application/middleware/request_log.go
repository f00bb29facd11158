package middleware

import (
	"time"

	"storecredit/util/logger"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// RequestLog บันทึก log หนึ่งบรรทัดต่อหนึ่ง request หลังจบการทำงาน
func RequestLog() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Log.Info("request completed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)

		return err
	}
}
