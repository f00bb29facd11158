package errs

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
)

type ErrorType string

const (
	ErrInputValidation  ErrorType = "input_validation_error"
	ErrBusinessRule     ErrorType = "business_rule_error"
	ErrResourceNotFound ErrorType = "resource_not_found"
	ErrConflict         ErrorType = "conflict_error"
	ErrDatabaseFailure  ErrorType = "database_failure"
	ErrOperationFailed  ErrorType = "operation_failed"
)

type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPStatus แปลงชนิดของ error เป็น status code สำหรับตอบกลับ
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrInputValidation:
		return http.StatusBadRequest
	case ErrBusinessRule:
		return http.StatusUnprocessableEntity
	case ErrResourceNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func InputValidationError(message string) *AppError {
	return New(ErrInputValidation, message)
}

func BusinessRuleError(message string) *AppError {
	return New(ErrBusinessRule, message)
}

func ResourceNotFoundError(message string) *AppError {
	return New(ErrResourceNotFound, message)
}

func ConflictError(message string) *AppError {
	return New(ErrConflict, message)
}

func DatabaseFailureError(message string) *AppError {
	return New(ErrDatabaseFailure, message)
}

// HandleDBError แปลง error จากฐานข้อมูลให้เป็น AppError
func HandleDBError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return ConflictError("duplicate record")
		case "foreign_key_violation":
			return ConflictError("related record not found")
		}
	}
	return DatabaseFailureError(err.Error())
}
