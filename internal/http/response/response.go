// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков, а также сопоставление
// типизированных ошибок бизнес-логики HTTP-статусам.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "lte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "datetime=02-01-2006":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only date in format 02-01-2006", err.Field()))
		case "datetime=2006-01-02T15:04:05Z07:00":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only timestamp in RFC3339 format", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusCode сопоставляет типизированную ошибку бизнес-логики HTTP-статусу.
// Неизвестные ошибки считаются внутренними.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrMemberNotFound),
		errors.Is(err, errs.ErrTrainerNotFound),
		errors.Is(err, errs.ErrSessionNotFound),
		errors.Is(err, errs.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAssignmentConflict),
		errors.Is(err, errs.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrTrainerMismatch),
		errors.Is(err, errs.ErrOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrAssignmentExpired),
		errors.Is(err, errs.ErrPastSession),
		errors.Is(err, errs.ErrPastEligibilityEnd),
		errors.Is(err, errs.ErrInvalidInterval):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BusinessError возвращает ErrorResponse с текстом типизированной ошибки
// или нейтральным сообщением для внутренних ошибок.
func BusinessError(err error) ErrorResponse {
	if StatusCode(err) == http.StatusInternalServerError {
		return Error("internal error")
	}
	return Error(err.Error())
}
