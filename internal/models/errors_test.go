package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewNotFoundError("Checklist", 7)
	assert.Equal(t, "Checklist with ID 7 not found", err.Error())

	wrapped := NewInternalError(errors.New("boom"))
	assert.Equal(t, "Internal server error: boom", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"not found", NewNotFoundError("Item", 1), fiber.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{"conflict", NewConflictError("dup"), fiber.StatusConflict},
		{"internal", NewInternalError(errors.New("x")), fiber.StatusInternalServerError},
		{"plain", errors.New("plain"), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundError("Item", 2)), fiber.StatusNotFound},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCode(NewConflictError("dup"), CodeConflict))
	assert.False(t, IsCode(NewConflictError("dup"), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
	assert.False(t, IsCode(nil, CodeInternal))
}
