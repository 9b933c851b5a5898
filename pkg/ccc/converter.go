// Package ccc converts legacy Spanish domestic account codes (Código Cuenta
// Cliente) to IBAN and checks their native control digits.
package ccc

import (
	"regexp"
	"strings"
	"unicode"

	"sepakit/pkg/checksum"
	apperrors "sepakit/pkg/errors"
)

const (
	Length      = 20
	countryCode = "ES"
)

var pattern = regexp.MustCompile(`^\d{20}$`)

// IBANCalculator is the part of the IBAN validator the converter relies on.
type IBANCalculator interface {
	Normalize(iban string) string
	Validate(iban string) error
	CalculateCheckDigits(iban string) string
}

// Converter is stateless apart from its IBAN collaborator.
type Converter struct {
	iban IBANCalculator
}

// NewConverter creates a converter backed by the given IBAN calculator.
func NewConverter(iban IBANCalculator) *Converter {
	return &Converter{iban: iban}
}

// Normalize removes all whitespace.
func (c *Converter) Normalize(ccc string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, ccc)
}

// IsValidCCC reports whether ccc is 20 digits and both embedded control
// digits match the computed ones.
func (c *Converter) IsValidCCC(ccc string) bool {
	normalized := c.Normalize(ccc)
	if !pattern.MatchString(normalized) {
		return false
	}

	first, second := checksum.CCCCheckDigits(normalized[0:4], normalized[4:8], normalized[10:20])
	return first[1:]+second[1:] == normalized[8:10]
}

// ToIBAN builds the Spanish IBAN for a 20 digit CCC. The CCC's own control
// digits are not verified; use IsValidCCC for that.
func (c *Converter) ToIBAN(ccc string) (string, error) {
	normalized := c.Normalize(ccc)
	if !pattern.MatchString(normalized) {
		return "", apperrors.InvalidFormat("ccc", "invalid CCC format, expected %d digits", Length)
	}

	checkDigits := c.iban.CalculateCheckDigits(countryCode + "00" + normalized)
	return countryCode + checkDigits + normalized, nil
}

// FromIBAN extracts the CCC embedded in a valid Spanish IBAN.
func (c *Converter) FromIBAN(iban string) (string, error) {
	normalized := c.iban.Normalize(iban)
	if !strings.HasPrefix(normalized, countryCode) || len(normalized) != len(countryCode)+2+Length {
		return "", apperrors.InvalidFormat("iban", "not a Spanish IBAN: %s", normalized)
	}
	if err := c.iban.Validate(normalized); err != nil {
		return "", err
	}
	return normalized[4:], nil
}

func (c *Converter) BankCode(ccc string) string {
	return part(c.Normalize(ccc), 0, 4)
}

func (c *Converter) BranchCode(ccc string) string {
	return part(c.Normalize(ccc), 4, 8)
}

// CheckDigits returns the two control digits embedded in the CCC.
func (c *Converter) CheckDigits(ccc string) string {
	return part(c.Normalize(ccc), 8, 10)
}

func (c *Converter) AccountNumber(ccc string) string {
	return part(c.Normalize(ccc), 10, 20)
}

func part(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
