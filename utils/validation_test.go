package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC1234", NormalizePlate("abc-1234"))
	assert.Equal(t, "ABC1D23", NormalizePlate(" abc1d23 "))
	assert.Equal(t, "ABC1234", NormalizePlate("ABC 1234"))
}

func TestValidatePlate(t *testing.T) {
	valid := []string{"ABC1234", "ABC-1234", "abc-1234", "ABC1D23", "xyz9k87"}
	for _, plate := range valid {
		assert.True(t, ValidatePlate(plate), "expected %q to be valid", plate)
	}

	invalid := []string{"", "ABC123", "ABCD123", "1234ABC", "AB-1234", "ABC12345", "ABC1DE3"}
	for _, plate := range invalid {
		assert.False(t, ValidatePlate(plate), "expected %q to be invalid", plate)
	}
}

func TestValidateCpfCnpj(t *testing.T) {
	assert.True(t, ValidateCpfCnpj("123.456.789-00"))
	assert.True(t, ValidateCpfCnpj("12.345.678/0001-00"))

	assert.False(t, ValidateCpfCnpj("12345678900"))
	assert.False(t, ValidateCpfCnpj("123.456.789-0"))
	assert.False(t, ValidateCpfCnpj(""))
}

func TestValidateCNPJ(t *testing.T) {
	assert.True(t, ValidateCNPJ("12.345.678/0001-00"))

	assert.False(t, ValidateCNPJ("123.456.789-00"))
	assert.False(t, ValidateCNPJ("12345678000100"))
}
