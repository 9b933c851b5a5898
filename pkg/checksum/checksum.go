// Package checksum implements the numeric check algorithms used by banking
// identifiers: ISO 7064 mod-97 (IBAN), Luhn (payment cards) and the weighted
// mod-11 check digits of the Spanish CCC.
package checksum

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	cccBankBranchWeights = [8]int{4, 8, 5, 10, 9, 7, 3, 6}
	cccAccountWeights    = [10]int{1, 2, 4, 8, 5, 10, 9, 7, 3, 6}
)

// Mod97 returns the remainder of the decimal number held in digits divided by 97.
// The input is consumed one digit at a time so its length is unbounded.
// Non-digit characters are skipped.
func Mod97(digits string) int {
	remainder := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			continue
		}
		remainder = (remainder*10 + int(c-'0')) % 97
	}
	return remainder
}

// ExpandAlphanumeric replaces every letter with its two-digit value
// (A=10 ... Z=35). Digits are kept as they are. Input is expected uppercase.
func ExpandAlphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteString(strconv.Itoa(int(c-'A') + 10))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// LuhnValid reports whether digits passes the Luhn check. Every digit at an odd
// distance from the rightmost one is doubled (minus 9 when above 9).
// Empty input or any non-digit character makes it invalid.
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CCCCheckDigits computes the two control digits of a Spanish CCC. The first
// covers the 4-digit bank and 4-digit branch codes, the second the 10-digit
// account number. Each result is zero padded to two characters.
func CCCCheckDigits(bankCode, branchCode, accountNumber string) (string, string) {
	first := cccDigit(bankCode+branchCode, cccBankBranchWeights[:])
	second := cccDigit(accountNumber, cccAccountWeights[:])
	return fmt.Sprintf("%02d", first), fmt.Sprintf("%02d", second)
}

func cccDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(weights) && i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			continue
		}
		sum += int(c-'0') * weights[i]
	}

	check := 11 - sum%11
	switch check {
	case 11:
		return 0
	case 10:
		return 1
	}
	return check
}
