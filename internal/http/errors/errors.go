// Package errors define el sobre de error HTTP del servicio.
package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, útil para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error { return e.Err }

// New crea un nuevo AppError.
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// FromError intenta convertir un error genérico en un AppError.
// Si no lo es, devuelve un error interno genérico conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail agrega detalle al error. Devuelve una COPIA para no mutar
// las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega la causa original. Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// Errores predefinidos.
var (
	ErrBadRequest = &AppError{
		Code: "bad_request", Message: "invalid request", HTTPStatus: http.StatusBadRequest,
	}
	ErrValidation = &AppError{
		Code: "validation_error", Message: "request validation failed", HTTPStatus: http.StatusBadRequest,
	}
	ErrUnauthorized = &AppError{
		Code: "unauthorized", Message: "authentication required", HTTPStatus: http.StatusUnauthorized,
	}
	ErrForbidden = &AppError{
		Code: "forbidden", Message: "insufficient permissions", HTTPStatus: http.StatusForbidden,
	}
	ErrNotFound = &AppError{
		Code: "not_found", Message: "resource not found", HTTPStatus: http.StatusNotFound,
	}
	ErrConflict = &AppError{
		Code: "conflict", Message: "resource already exists", HTTPStatus: http.StatusConflict,
	}
	ErrInternalServerError = &AppError{
		Code: "internal_error", Message: "internal server error", HTTPStatus: http.StatusInternalServerError,
	}
)
