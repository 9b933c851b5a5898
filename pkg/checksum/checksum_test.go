package checksum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMod97(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   int
	}{
		{name: "zero", digits: "0", want: 0},
		{name: "below modulus", digits: "96", want: 96},
		{name: "modulus", digits: "97", want: 0},
		{name: "above modulus", digits: "98", want: 1},
		{name: "empty", digits: "", want: 0},
		// ES9121000418450200051332 rearranged and expanded
		{name: "valid iban", digits: "21000418450200051332142891", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mod97(tt.digits))
		})
	}
}

func TestMod97_LongInput(t *testing.T) {
	long := strings.Repeat("9", 500)
	got := Mod97(long)
	assert.GreaterOrEqual(t, got, 0)
	assert.Less(t, got, 97)
}

func TestExpandAlphanumeric(t *testing.T) {
	assert.Equal(t, "1014", ExpandAlphanumeric("AE"))
	assert.Equal(t, "35", ExpandAlphanumeric("Z"))
	assert.Equal(t, "142800", ExpandAlphanumeric("ES00"))
	assert.Equal(t, "123", ExpandAlphanumeric("123"))
}

func TestLuhnValid(t *testing.T) {
	assert.True(t, LuhnValid("4532015112830366"))
	assert.True(t, LuhnValid("79927398713"))
	assert.True(t, LuhnValid("378282246310005"))
	assert.False(t, LuhnValid("4532015112830367"))
	assert.False(t, LuhnValid(""))
	assert.False(t, LuhnValid("4532a15112830366"))
}

func TestLuhnValid_FlippingLastDigitAlwaysFails(t *testing.T) {
	valid := "4532015112830366"
	prefix := valid[:len(valid)-1]
	for d := byte('0'); d <= '9'; d++ {
		if d == valid[len(valid)-1] {
			continue
		}
		assert.False(t, LuhnValid(prefix+string(d)), "last digit %c", d)
	}
}

func TestCCCCheckDigits(t *testing.T) {
	tests := []struct {
		bank, branch, account string
		first, second         string
	}{
		{"2100", "0418", "0200051332", "4", "5"},
		{"0049", "1500", "2710127542", "0", "9"},
		{"0000", "0000", "0000000000", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.bank+tt.branch+tt.account, func(t *testing.T) {
			first, second := CCCCheckDigits(tt.bank, tt.branch, tt.account)
			assert.Equal(t, "0"+tt.first, first)
			assert.Equal(t, "0"+tt.second, second)
		})
	}
}

func TestCCCCheckDigits_Remap(t *testing.T) {
	// 2*6 = 12, 12 % 11 = 1, 11 - 1 = 10 -> 1
	first, _ := CCCCheckDigits("0000", "0002", "0000000000")
	assert.Equal(t, "01", first)

	// weighted sum 0 -> 11 -> 0
	first, second := CCCCheckDigits("0000", "0000", "0000000000")
	assert.Equal(t, "00", first)
	assert.Equal(t, "00", second)
}
