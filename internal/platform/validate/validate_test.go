// Copyright (c) 2026 MangaMania. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangamania/api/internal/platform/apperr"
)

func TestValidatorChaining(t *testing.T) {
	t.Run("all rules passing yields nil", func(t *testing.T) {
		v := &Validator{}
		err := v.
			Required("email", "reader@example.com").
			Email("email", "reader@example.com").
			MinLen("password", "long-enough", 8).
			Err()
		assert.NoError(t, err)
	})

	t.Run("failures accumulate per field", func(t *testing.T) {
		v := &Validator{}
		err := v.
			Required("title", "").
			Range("volume", 0, 1, 200).
			OneOf("status", "paused", "reading", "completed").
			Err()

		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Len(t, appError.Details, 3)
	})

	t.Run("whitespace-only fails Required", func(t *testing.T) {
		v := &Validator{}
		assert.Error(t, v.Required("title", "   \t").Err())
	})

	t.Run("length rules count runes not bytes", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.MaxLen("title", "ワンピース", 5).Err())

		v = &Validator{}
		assert.Error(t, v.MaxLen("title", "ワンピース", 4).Err())
	})

	t.Run("UUID accepts canonical forms case-insensitively", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.UUID("id", "0192C7E4-98A2-7F00-B000-112233445566").Err())

		v = &Validator{}
		assert.Error(t, v.UUID("id", "not-a-uuid").Err())
	})

	t.Run("Min enforces the lower bound inclusively", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.Min("mal_id", 1, 1).Err())

		v = &Validator{}
		assert.Error(t, v.Min("mal_id", 0, 1).Err())
	})

	t.Run("Custom fires only when the condition holds", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.Custom("score", false, "bad").Err())

		v = &Validator{}
		assert.Error(t, v.Custom("score", true, "bad").Err())
	})
}

func TestRequiredError(t *testing.T) {
	err := RequiredError("status", "Must be a known status")
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "status", err.Details[0].Field)
}
