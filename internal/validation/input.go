package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Constantes de validación
const (
	MinOfferTitleLength       = 3
	MaxOfferTitleLength       = 200
	MinOfferDescriptionLength = 10
	MaxOfferDescriptionLength = 5000
	MinProposalMessageLength  = 10
	MaxProposalMessageLength  = 2000
	MaxRatingCommentLength    = 500
	MaxBioLength              = 1000
	MaxNameLength             = 100
	MinBudget                 = 0.0
	MaxBudget                 = 100000000.0 // 100 millones CLP
	MaxEstimatedDurationDays  = 365
)

var emailLocalRegex = regexp.MustCompile(`^[a-z0-9._+-]+$`)
var emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)

// ValidateLength verifica la longitud de una cadena en runas.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s debe tener al menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s debe tener como máximo %d caracteres", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty verifica que la cadena no esté vacía.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s no puede estar vacío", fieldName)
	}
	return nil
}

// ValidateEmail verifica el formato del email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("el email es obligatorio")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("formato de email inválido")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("la parte local del email debe tener entre 1 y 64 caracteres")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("el dominio del email debe tener entre 1 y 255 caracteres")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("el email contiene caracteres no permitidos")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("el dominio del email tiene un formato inválido")
	}

	return nil
}

// ValidateOfferTitle valida el título de una oferta.
func ValidateOfferTitle(title string) error {
	if err := ValidateNonEmpty("el título", title); err != nil {
		return err
	}
	return ValidateLength("el título", title, MinOfferTitleLength, MaxOfferTitleLength)
}

// ValidateOfferDescription valida la descripción de una oferta.
func ValidateOfferDescription(description string) error {
	if err := ValidateNonEmpty("la descripción", description); err != nil {
		return err
	}
	return ValidateLength("la descripción", description, MinOfferDescriptionLength, MaxOfferDescriptionLength)
}

// ValidateBudgetRange valida el rango de presupuesto de una oferta.
func ValidateBudgetRange(min, max *float64) error {
	if min != nil && (*min < MinBudget || *min > MaxBudget) {
		return fmt.Errorf("el presupuesto mínimo está fuera de rango")
	}
	if max != nil && (*max < MinBudget || *max > MaxBudget) {
		return fmt.Errorf("el presupuesto máximo está fuera de rango")
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("el presupuesto mínimo no puede ser mayor que el máximo")
	}
	return nil
}

// ValidateProposalMessage valida el mensaje de una propuesta.
func ValidateProposalMessage(message string) error {
	if err := ValidateNonEmpty("el mensaje", message); err != nil {
		return err
	}
	return ValidateLength("el mensaje", message, MinProposalMessageLength, MaxProposalMessageLength)
}

// ValidateProposedPrice valida el precio propuesto.
func ValidateProposedPrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("el precio propuesto debe ser mayor que cero")
	}
	if price > MaxBudget {
		return fmt.Errorf("el precio propuesto no puede superar %.0f", MaxBudget)
	}
	return nil
}

// ValidateEstimatedDuration valida la duración estimada en días.
func ValidateEstimatedDuration(days int) error {
	if days <= 0 {
		return fmt.Errorf("la duración estimada debe ser mayor que cero")
	}
	if days > MaxEstimatedDurationDays {
		return fmt.Errorf("la duración estimada no puede superar %d días", MaxEstimatedDurationDays)
	}
	return nil
}

// ValidateRating valida el valor de una calificación.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("la calificación debe estar entre 1 y 5")
	}
	return nil
}

// ValidateRatingComment valida el comentario opcional de una calificación.
func ValidateRatingComment(comment *string) error {
	if comment == nil {
		return nil
	}
	return ValidateLength("el comentario", *comment, 0, MaxRatingCommentLength)
}
