package validation

import (
	"fmt"
	"unicode"
)

// ValidatePassword verifica los requisitos mínimos de la contraseña:
// al menos 8 caracteres, una mayúscula, una minúscula y un dígito.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("la contraseña debe contener al menos una mayúscula")
	}
	if !hasLower {
		return fmt.Errorf("la contraseña debe contener al menos una minúscula")
	}
	if !hasNumber {
		return fmt.Errorf("la contraseña debe contener al menos un dígito")
	}

	return nil
}
