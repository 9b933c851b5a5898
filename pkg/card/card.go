// Package card validates payment card numbers (length and Luhn) and detects
// the card brand from its prefix.
package card

import (
	"regexp"
	"strings"

	"sepakit/pkg/checksum"
	apperrors "sepakit/pkg/errors"
)

// Type is a card brand.
type Type string

const (
	TypeVisa       Type = "visa"
	TypeMastercard Type = "mastercard"
	TypeAmex       Type = "amex"
	TypeDiscover   Type = "discover"
	TypeDinersClub Type = "diners_club"
	TypeJCB        Type = "jcb"
	TypeUnknown    Type = "unknown"
)

const (
	MinLength = 13
	MaxLength = 19
)

type brandRule struct {
	brand    Type
	patterns []*regexp.Regexp
}

// Evaluated in order; the first match wins. Diners (30x, 36, 38, 39) must
// come after Amex (34, 37).
var brandRules = []brandRule{
	{TypeVisa, []*regexp.Regexp{regexp.MustCompile(`^4\d{12}(\d{3})?$`)}},
	{TypeMastercard, []*regexp.Regexp{
		regexp.MustCompile(`^5[1-5]\d{14}$`),
		regexp.MustCompile(`^2[2-7]\d{14}$`),
	}},
	{TypeAmex, []*regexp.Regexp{regexp.MustCompile(`^3[47]\d{13}$`)}},
	{TypeDiscover, []*regexp.Regexp{regexp.MustCompile(`^6(?:011|5\d{2}|4[4-9]\d|22[1-9]\d{2})\d{10}$`)}},
	{TypeDinersClub, []*regexp.Regexp{
		regexp.MustCompile(`^3[0689]\d{12}$`),
		regexp.MustCompile(`^30[0-5]\d{11}$`),
	}},
	{TypeJCB, []*regexp.Regexp{regexp.MustCompile(`^35\d{14}$`)}},
}

// Validator is stateless and safe for concurrent use.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Normalize drops everything but digits.
func (v *Validator) Normalize(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}

func (v *Validator) IsValid(number string) bool {
	return v.Validate(number) == nil
}

// Validate returns an InvalidFormat error for a wrong length and an
// InvalidChecksum error when the Luhn check fails.
func (v *Validator) Validate(number string) error {
	normalized := v.Normalize(number)
	if n := len(normalized); n < MinLength || n > MaxLength {
		return apperrors.InvalidFormat("card", "invalid card number length %d, expected %d to %d digits", n, MinLength, MaxLength)
	}
	if !checksum.LuhnValid(normalized) {
		return apperrors.InvalidChecksum("card", "card number fails the Luhn check")
	}
	return nil
}

// Type detects the card brand. It does not check the Luhn digit.
func (v *Validator) Type(number string) Type {
	normalized := v.Normalize(number)
	if normalized == "" {
		return TypeUnknown
	}
	for _, rule := range brandRules {
		for _, p := range rule.patterns {
			if p.MatchString(normalized) {
				return rule.brand
			}
		}
	}
	return TypeUnknown
}

// IsValidForType reports whether number is valid and of the given brand.
func (v *Validator) IsValidForType(number string, t Type) bool {
	return v.IsValid(number) && v.Type(number) == t
}

// BIN returns the first six digits (issuer identification number).
func (v *Validator) BIN(number string) string {
	normalized := v.Normalize(number)
	if len(normalized) < 6 {
		return normalized
	}
	return normalized[:6]
}

func (v *Validator) LastFour(number string) string {
	normalized := v.Normalize(number)
	if len(normalized) < 4 {
		return normalized
	}
	return normalized[len(normalized)-4:]
}

// Mask replaces all but the last four digits with maskChar. Numbers shorter
// than four digits are masked entirely. A zero maskChar means '*'.
func (v *Validator) Mask(number string, maskChar rune) string {
	if maskChar == 0 {
		maskChar = '*'
	}
	normalized := v.Normalize(number)
	n := len(normalized)
	if n < 4 {
		return strings.Repeat(string(maskChar), n)
	}
	return strings.Repeat(string(maskChar), n-4) + normalized[n-4:]
}

// Format groups the digits in blocks of four.
func (v *Validator) Format(number string) string {
	normalized := v.Normalize(number)
	var b strings.Builder
	for i := 0; i < len(normalized); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(normalized[i])
	}
	return b.String()
}
