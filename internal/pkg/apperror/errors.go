package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
	ErrCodeDuplicateProposal ErrorCode = "DUPLICATE_PROPOSAL"
	ErrCodeDuplicateRating   ErrorCode = "DUPLICATE_RATING"
	ErrCodeQuotaExceeded     ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError lleva un código estable legible por máquina junto al mensaje
// para el usuario. Cause guarda el error original para los logs.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Newf construye un AppError con mensaje formateado.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeInvalidState, ErrCodeDuplicateProposal, ErrCodeDuplicateRating:
		return http.StatusConflict
	case ErrCodeQuotaExceeded:
		// 402 para que el frontend muestre el aviso de mejora de plan
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsInvalidState(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidState
}

// CodeOf devuelve el código del error o ErrCodeInternal si no es un AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatusOf devuelve el status HTTP asociado al error.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

var (
	ErrOfferNotFound       = New(ErrCodeNotFound, "oferta no encontrada")
	ErrProposalNotFound    = New(ErrCodeNotFound, "propuesta no encontrada")
	ErrAppointmentNotFound = New(ErrCodeNotFound, "cita no encontrada")
	ErrRatingNotFound      = New(ErrCodeNotFound, "calificación no encontrada")
	ErrUserNotFound        = New(ErrCodeNotFound, "usuario no encontrado")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "se requiere autenticación")
	// Mensaje genérico a propósito: no revela si el registro existe.
	ErrForbidden          = New(ErrCodeForbidden, "no tienes permiso para esta acción")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "credenciales inválidas")
	ErrDuplicateProposal  = New(ErrCodeDuplicateProposal, "ya tienes una propuesta activa para esta oferta")
	ErrDuplicateRating    = New(ErrCodeDuplicateRating, "ya calificaste este trabajo")
	ErrQuotaExceeded      = New(ErrCodeQuotaExceeded, "alcanzaste el límite de propuestas de tu plan, mejora tu suscripción")
)
