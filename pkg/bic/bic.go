// Package bic validates and decomposes ISO 9362 Business Identifier Codes.
package bic

import (
	"regexp"
	"strings"
	"unicode"

	apperrors "sepakit/pkg/errors"
)

// BIC format: 4 letters (bank) + 2 letters (country) + 2 alphanumeric (location) + optional 3 alphanumeric (branch)
var pattern = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

// Validator is stateless and safe for concurrent use.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Normalize strips all whitespace and uppercases the input.
func (v *Validator) Normalize(bic string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, bic))
}

func (v *Validator) IsValid(bic string) bool {
	return v.Validate(bic) == nil
}

// Validate returns an InvalidFormat error unless bic is an 8 or 11 character code.
func (v *Validator) Validate(bic string) error {
	normalized := v.Normalize(bic)
	if n := len(normalized); n != 8 && n != 11 {
		return apperrors.InvalidFormat("bic", "invalid BIC length %d, expected 8 or 11 characters", n)
	}
	if !pattern.MatchString(normalized) {
		return apperrors.InvalidFormat("bic", "invalid BIC format: %s", normalized)
	}
	return nil
}

func (v *Validator) BankCode(bic string) string {
	return part(v.Normalize(bic), 0, 4)
}

func (v *Validator) CountryCode(bic string) string {
	return part(v.Normalize(bic), 4, 6)
}

func (v *Validator) LocationCode(bic string) string {
	return part(v.Normalize(bic), 6, 8)
}

// BranchCode returns the 3 character branch and true for the 11 character
// form. The 8 character form has no branch.
func (v *Validator) BranchCode(bic string) (string, bool) {
	normalized := v.Normalize(bic)
	if len(normalized) != 11 {
		return "", false
	}
	return normalized[8:11], true
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
