package handler

import (
	"strconv"

	"storecredit/util/errs"

	"github.com/gofiber/fiber/v3"
)

func paramInt64(c fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, errs.InputValidationError(name + " is invalid")
	}
	return v, nil
}
