package util

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@nodot"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("bob"))
	assert.True(t, ValidateUsername("a_perfectly_fine_name"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername("this-username-is-way-too-long-to-pass"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1!"))
	assert.False(t, ValidatePassword("NoDigits!!"))
	assert.False(t, ValidatePassword("NoSpecial123"))
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.True(t, ValidatePositiveAmount(decimal.NewFromInt(1)))
	assert.True(t, ValidatePositiveAmount(decimal.RequireFromString("0.01")))
	assert.False(t, ValidatePositiveAmount(decimal.Zero))
	assert.False(t, ValidatePositiveAmount(decimal.NewFromInt(-5)))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("15/06/2025")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-06-15", FormatDate(time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)))
}

func TestValidationError(t *testing.T) {
	e := NewValidationError()
	assert.False(t, e.HasErrors())

	e.Add("amount", "Amount must be positive.")
	e.Add("amount", "Amount is required.")
	e.AddNonField("Source and destination must differ.")

	assert.True(t, e.HasErrors())
	assert.Equal(t, []string{"Amount must be positive.", "Amount is required."}, e.Fields["amount"])
	assert.Equal(t, []string{"Source and destination must differ."}, e.Fields[NonFieldErrors])
	assert.Contains(t, e.Error(), "amount: Amount must be positive.")
}
