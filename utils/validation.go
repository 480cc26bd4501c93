// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	// Legacy plate: 3 letters + 4 digits (hyphen optional on input).
	legacyPlateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	// Mercosul plate: 3 letters, digit, letter, 2 digits.
	mercosulPlateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)

	cpfRegex  = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cnpjRegex = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
)

// NormalizePlate uppercases a plate and strips spaces and hyphens.
func NormalizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	plate = strings.ReplaceAll(plate, "-", "")
	return strings.ReplaceAll(plate, " ", "")
}

// ValidatePlate accepts the legacy (ABC1234 / ABC-1234) and Mercosul
// (ABC1D23) Brazilian plate formats.
func ValidatePlate(plate string) bool {
	normalized := NormalizePlate(plate)
	return legacyPlateRegex.MatchString(normalized) || mercosulPlateRegex.MatchString(normalized)
}

// ValidateCpfCnpj accepts formatted CPF (123.456.789-00) or CNPJ
// (12.345.678/0001-00) strings.
func ValidateCpfCnpj(doc string) bool {
	return cpfRegex.MatchString(doc) || cnpjRegex.MatchString(doc)
}

// ValidateCNPJ accepts only the formatted CNPJ notation.
func ValidateCNPJ(cnpj string) bool {
	return cnpjRegex.MatchString(cnpj)
}
