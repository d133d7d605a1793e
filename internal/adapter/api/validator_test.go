package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	type registerForm struct {
		Email string `validate:"required,email"`
		Role  string `validate:"omitempty,oneof=user admin"`
	}

	assert.NoError(t, v.Validate(&registerForm{Email: "a@example.com", Role: "user"}))
	assert.NoError(t, v.Validate(&registerForm{Email: "a@example.com"}))
	assert.Error(t, v.Validate(&registerForm{Email: "not-an-email"}))
	assert.Error(t, v.Validate(&registerForm{Email: "a@example.com", Role: "root"}))
}
