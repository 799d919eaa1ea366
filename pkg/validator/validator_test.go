package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Color    string  `binding:"required,tagcolor"`
	X        float64 `binding:"finite"`
	Username string  `binding:"omitempty,username"`
}

func newValidator(t *testing.T) *CustomValidator {
	v := NewCustomValidator()
	v.lazyinit()
	require.NoError(t, Register(v.Validate))
	return v
}

func TestCustomRules(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"valid", sample{Color: "red", X: 1.5, Username: "alice_01"}, true},
		{"unknown color", sample{Color: "purple"}, false},
		{"nan coordinate", sample{Color: "blue", X: math.NaN()}, false},
		{"inf coordinate", sample{Color: "blue", X: math.Inf(1)}, false},
		{"bad username", sample{Color: "green", Username: "a b"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(&tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateStruct_IgnoresNonStruct(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct(42))
}
