package validate

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ginのバインディングエンジンはタグ名を binding に差し替えている
type form struct {
	Month string `binding:"omitempty,monthyear"`
	Phone string `binding:"omitempty,dzphone"`
}

func TestRegister(t *testing.T) {
	Register()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	assert.NoError(t, v.Struct(form{Month: "2025-09", Phone: "0551234567"}))
	assert.Error(t, v.Struct(form{Month: "2025-13"}))
	assert.Error(t, v.Struct(form{Month: "2025-9"}))
	assert.Error(t, v.Struct(form{Phone: "0851234567"}))
	assert.Error(t, v.Struct(form{Phone: "055123456"}))
}
