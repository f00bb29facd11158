package module

import (
	"github.com/gofiber/fiber/v3"
)

// Module คือหน่วยที่ลงทะเบียน route ของตัวเองกับ router ตาม API version
type Module interface {
	APIVersion() string
	RegisterRoutes(r fiber.Router)
}
