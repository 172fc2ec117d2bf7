package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"Valid1Pass", true},
		{"Str0ngPass", true},
		{"Abcdefg1", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestIsEmailValid(t *testing.T) {
	assert.True(t, IsEmailValid("user@example.com"))
	assert.True(t, IsEmailValid("first.last+tag@sub.example.co"))
	assert.False(t, IsEmailValid("user@example"))
	assert.False(t, IsEmailValid("user example.com"))
	assert.False(t, IsEmailValid("@example.com"))
	assert.False(t, IsEmailValid(""))
}

func TestIsOTPCode(t *testing.T) {
	assert.True(t, IsOTPCode("004821"))
	assert.False(t, IsOTPCode("12345"))
	assert.False(t, IsOTPCode("1234567"))
	assert.False(t, IsOTPCode("12a456"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM \n"))
}

func TestRegister_CustomTags(t *testing.T) {
	v := validator.New()
	Register(v)

	type request struct {
		OTP         string `json:"otp" validate:"required,otpcode"`
		NewPassword string `json:"newPassword" validate:"required,strongpassword"`
	}

	require.NoError(t, v.Struct(request{OTP: "123456", NewPassword: "Valid1Pass"}))

	err := v.Struct(request{OTP: "12345", NewPassword: "weak"})
	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr, 2)
	assert.Equal(t, "otp", verr[0].Field())
	assert.Equal(t, TagOTPCode, verr[0].Tag())
	assert.Equal(t, "newPassword", verr[1].Field())
	assert.Equal(t, TagStrongPassword, verr[1].Tag())
}
