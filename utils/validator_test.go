package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"owner@shop.test", "first.last+tag@example.co.uk"}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "missing@tld", "@nobody.test", "spaces in@mail.test"}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("12345678")
	assert.True(t, ok)

	ok, message := ValidatePassword("1234567")
	assert.False(t, ok)
	assert.Contains(t, message, "at least 8 characters")
}

func TestValidateProductName(t *testing.T) {
	ok, _ := ValidateProductName("Handmade Mug")
	assert.True(t, ok)

	ok, message := ValidateProductName("   ")
	assert.False(t, ok)
	assert.Contains(t, message, "required")

	ok, message = ValidateProductName(strings.Repeat("x", 256))
	assert.False(t, ok)
	assert.Contains(t, message, "at most 255")
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestStagedFileName(t *testing.T) {
	name := StagedFileName("My Export.CSV")
	assert.True(t, strings.HasSuffix(name, ".csv"), name)
	assert.NotContains(t, name, " ")

	// Client-controlled directory parts never survive.
	name = StagedFileName("../../evil.csv")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")

	assert.NotEqual(t, StagedFileName("a.csv"), StagedFileName("a.csv"))
}
