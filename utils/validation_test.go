package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testActor struct {
	Name   string `json:"name" validate:"required,max=120"`
	Age    *int   `json:"age" validate:"required,gte=0"`
	Gender string `json:"gender" validate:"required,max=50"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := testActor{Name: "Emma Stone", Age: intPtr(32), Gender: "Female"}

		err := ValidateStruct(&s)
		assert.NoError(t, err)
	})

	t.Run("zero age is present", func(t *testing.T) {
		s := testActor{Name: "Newborn", Age: intPtr(0), Gender: "Male"}

		assert.NoError(t, ValidateStruct(&s))
	})

	t.Run("missing required fields use json names", func(t *testing.T) {
		s := testActor{Gender: "Female"}

		err := ValidateStruct(&s)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "name is required", fields["name"])
		assert.Equal(t, "age is required", fields["age"])
		assert.NotContains(t, fields, "gender")
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, 121)
		for i := range long {
			long[i] = 'a'
		}
		s := testActor{Name: string(long), Age: intPtr(1), Gender: "Female"}

		err := ValidateStruct(&s)
		require.Error(t, err)
		assert.Equal(t, "name must be at most 120", GetValidationFields(err)["name"])
	})

	t.Run("negative age", func(t *testing.T) {
		s := testActor{Name: "Someone", Age: intPtr(-1), Gender: "Female"}

		err := ValidateStruct(&s)
		require.Error(t, err)
		assert.Contains(t, GetValidationFields(err), "age")
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "Test validation error",
		Fields: map[string]string{
			"field1": "error1",
		},
	}

	assert.Equal(t, "Test validation error", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Message: "test"}))
	assert.False(t, IsValidationError(assert.AnError))
	assert.Nil(t, GetValidationFields(assert.AnError))
}
