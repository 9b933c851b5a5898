// Package iban validates and decomposes International Bank Account Numbers.
package iban

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"sepakit/pkg/checksum"
	apperrors "sepakit/pkg/errors"
)

const (
	MinLength = 15
	MaxLength = 34
)

var pattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]+$`)

// Validator is stateless and safe for concurrent use.
type Validator struct{}

// New creates an IBAN validator.
func New() *Validator {
	return &Validator{}
}

// Normalize strips all whitespace and uppercases the input.
func (v *Validator) Normalize(iban string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, iban))
}

// IsValid reports whether iban is structurally correct and passes mod-97.
func (v *Validator) IsValid(iban string) bool {
	return v.Validate(iban) == nil
}

// Validate returns nil for a valid IBAN, an InvalidFormat error for a
// structural mismatch, or an InvalidChecksum error when mod-97 fails.
func (v *Validator) Validate(iban string) error {
	normalized := v.Normalize(iban)

	if n := len(normalized); n < MinLength || n > MaxLength {
		return apperrors.InvalidFormat("iban", "invalid IBAN length %d, expected %d to %d characters", n, MinLength, MaxLength)
	}
	if !pattern.MatchString(normalized) {
		return apperrors.InvalidFormat("iban", "invalid IBAN format: %s", normalized)
	}
	if checksum.Mod97(numeric(normalized)) != 1 {
		return apperrors.InvalidChecksum("iban", "invalid IBAN check digits: %s", normalized)
	}
	return nil
}

// CalculateCheckDigits returns the two check digits for iban, ignoring
// whatever currently sits in positions 3-4.
func (v *Validator) CalculateCheckDigits(iban string) string {
	normalized := v.Normalize(iban)
	if len(normalized) < 4 {
		return ""
	}

	placeholder := normalized[:2] + "00" + normalized[4:]
	return fmt.Sprintf("%02d", 98-checksum.Mod97(numeric(placeholder)))
}

// CountryCode returns the ISO 3166 country prefix.
func (v *Validator) CountryCode(iban string) string {
	return slice(v.Normalize(iban), 0, 2)
}

// CheckDigits returns the two digits following the country code.
func (v *Validator) CheckDigits(iban string) string {
	return slice(v.Normalize(iban), 2, 4)
}

// BBAN returns the domestic part of the account number.
func (v *Validator) BBAN(iban string) string {
	normalized := v.Normalize(iban)
	return slice(normalized, 4, len(normalized))
}

// Format groups the normalized IBAN in blocks of four characters.
func (v *Validator) Format(iban string) string {
	return group(v.Normalize(iban), 4)
}

// numeric moves the first four characters to the end and expands letters.
func numeric(normalized string) string {
	rearranged := normalized[4:] + normalized[:4]
	return checksum.ExpandAlphanumeric(rearranged)
}

func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func group(s string, size int) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && i%size == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
