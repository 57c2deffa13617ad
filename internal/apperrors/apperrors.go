// Package apperrors содержит определения кодов ошибок.
package apperrors

import (
	"fmt"
	"net/http"
)

// Code - машинный код ошибки.
type Code string

// AppError представляет ошибку.
type AppError struct {
	Code    Code
	Message string
}

// Error реализует error.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus возвращает подходящий HTTP статус для кода ошибки.
func (e *AppError) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Коды ошибок
const (
	ErrNotFound          Code = "NOT_FOUND"
	ErrApplicationClosed Code = "APPLICATION_CLOSED"
	ErrNotAssigned       Code = "APPLICATION_NOT_ASSIGNED"
	ErrManagerOffShift   Code = "MANAGER_OFF_SHIFT"
	ErrInvalidRequest    Code = "INVALID_REQUEST"
	ErrInvalidOutcome    Code = "INVALID_OUTCOME"
	ErrInvalidShift      Code = "INVALID_SHIFT"
	ErrInternalIssue     Code = "INTERNAL_ISSUE"
)

// messages - человекочитаемые строки по коду.
var messages = map[Code]string{
	ErrNotFound:          "resource not found",
	ErrApplicationClosed: "application already has a final status",
	ErrNotAssigned:       "application has no manager yet",
	ErrManagerOffShift:   "manager is not on shift",
	ErrInvalidRequest:    "invalid request",
	ErrInvalidOutcome:    "outcome must be accepted or rejected",
	ErrInvalidShift:      "shift must be ON_SHIFT or OFF_SHIFT",
	ErrInternalIssue:     "internal server issue, please try again",
}

// statusByCode - HTTP-статусы по коду.
var statusByCode = map[Code]int{
	ErrNotFound:          http.StatusNotFound,
	ErrApplicationClosed: http.StatusConflict,
	ErrNotAssigned:       http.StatusConflict,
	ErrManagerOffShift:   http.StatusConflict,
	ErrInvalidRequest:    http.StatusBadRequest,
	ErrInvalidOutcome:    http.StatusBadRequest,
	ErrInvalidShift:      http.StatusBadRequest,
	ErrInternalIssue:     http.StatusInternalServerError,
}

// New создаёт AppError по коду.
func New(code Code) *AppError {
	return &AppError{Code: code, Message: messageFor(code)}
}

// Newf создаёт AppError с уточнённым сообщением.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FromCode возвращает сообщение по коду (без создания AppError).
func FromCode(code Code) string { return messageFor(code) }

func messageFor(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[ErrInternalIssue]
}
