package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("valentina.soto@ejemplo.cl"))
	assert.NoError(t, ValidateEmail("Con.Mayusculas@Ejemplo.CL"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("sin-arroba.cl"))
	assert.Error(t, ValidateEmail("dos@arrobas@ejemplo.cl"))
	assert.Error(t, ValidateEmail("espacios raros@ejemplo.cl"))
	assert.Error(t, ValidateEmail("alguien@sin-punto"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secreta123"))
	assert.Error(t, ValidatePassword("corta1A"), "menos de 8 caracteres")
	assert.Error(t, ValidatePassword("sinmayuscula1"))
	assert.Error(t, ValidatePassword("SINMINUSCULA1"))
	assert.Error(t, ValidatePassword("SinNumeros"))
}

func TestValidateBudgetRange(t *testing.T) {
	min := 50000.0
	max := 150000.0
	assert.NoError(t, ValidateBudgetRange(&min, &max))
	assert.NoError(t, ValidateBudgetRange(nil, nil))
	assert.NoError(t, ValidateBudgetRange(&min, nil))

	invertidoMin := 200000.0
	assert.Error(t, ValidateBudgetRange(&invertidoMin, &max), "mínimo sobre el máximo")

	negativo := -1.0
	assert.Error(t, ValidateBudgetRange(&negativo, nil))

	enorme := MaxBudget + 1
	assert.Error(t, ValidateBudgetRange(nil, &enorme))
}

func TestValidateProposalMessage(t *testing.T) {
	assert.NoError(t, ValidateProposalMessage("Me interesa mucho este proyecto"))
	assert.Error(t, ValidateProposalMessage(""))
	assert.Error(t, ValidateProposalMessage("   "))
	assert.Error(t, ValidateProposalMessage("corto"))
	assert.Error(t, ValidateProposalMessage(strings.Repeat("a", MaxProposalMessageLength+1)))
}

func TestValidateProposedPrice(t *testing.T) {
	assert.NoError(t, ValidateProposedPrice(85000))
	assert.Error(t, ValidateProposedPrice(0))
	assert.Error(t, ValidateProposedPrice(-100))
	assert.Error(t, ValidateProposedPrice(MaxBudget+1))
}

func TestValidateRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		assert.NoError(t, ValidateRating(rating))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}

func TestValidateRatingComment(t *testing.T) {
	assert.NoError(t, ValidateRatingComment(nil))
	ok := "Muy buen trato y excelente resultado"
	assert.NoError(t, ValidateRatingComment(&ok))
	largo := strings.Repeat("x", MaxRatingCommentLength+1)
	assert.Error(t, ValidateRatingComment(&largo))
}

func TestValidateLength_CountsRunes(t *testing.T) {
	// "ñandú" son 5 runas aunque ocupe más bytes.
	assert.NoError(t, ValidateLength("el campo", "ñandú", 5, 5))
}
