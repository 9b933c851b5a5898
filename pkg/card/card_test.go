package card

import (
	"testing"

	apperrors "sepakit/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{name: "visa 16", number: "4532015112830366", want: true},
		{name: "visa 13", number: "4222222222222", want: true},
		{name: "with spaces", number: "4532 0151 1283 0366", want: true},
		{name: "with dashes", number: "4532-0151-1283-0366", want: true},
		{name: "amex", number: "378282246310005", want: true},
		{name: "luhn failure", number: "1234567812345678", want: false},
		{name: "too short", number: "411111111111", want: false},
		{name: "too long", number: "41111111111111111111", want: false},
		{name: "empty", number: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.number))
		})
	}
}

func TestValidate_Kinds(t *testing.T) {
	v := New()
	assert.ErrorIs(t, v.Validate("4111"), apperrors.ErrInvalidFormat)
	assert.ErrorIs(t, v.Validate("4532015112830367"), apperrors.ErrInvalidChecksum)
}

func TestFlippingLastDigit(t *testing.T) {
	v := New()
	valid := "4532015112830366"
	for d := '0'; d <= '9'; d++ {
		candidate := valid[:15] + string(d)
		assert.Equal(t, d == '6', v.IsValid(candidate), candidate)
	}
}

func TestType(t *testing.T) {
	v := New()

	tests := []struct {
		number string
		want   Type
	}{
		{"4532015112830366", TypeVisa},
		{"4222222222222", TypeVisa},
		{"5555555555554444", TypeMastercard},
		{"2221000000000009", TypeMastercard},
		{"378282246310005", TypeAmex},
		{"60110000000000", TypeDiscover},
		{"65000000000000", TypeDiscover},
		{"6011111111111117", TypeUnknown},
		{"6221260000000000", TypeDiscover},
		{"30569309025904", TypeDinersClub},
		{"36227206271667", TypeDinersClub},
		{"38520000023237", TypeDinersClub},
		{"3530111333300000", TypeJCB},
		{"9999999999999999", TypeUnknown},
		{"", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Type(tt.number))
		})
	}
}

func TestIsValidForType(t *testing.T) {
	v := New()
	assert.True(t, v.IsValidForType("4532015112830366", TypeVisa))
	assert.False(t, v.IsValidForType("4532015112830366", TypeMastercard))
	assert.False(t, v.IsValidForType("4532015112830367", TypeVisa))
}

func TestMask(t *testing.T) {
	v := New()
	assert.Equal(t, "************0366", v.Mask("4532015112830366", '*'))
	assert.Equal(t, "************0366", v.Mask("4532 0151 1283 0366", 0))
	assert.Equal(t, "XXXXXXXXXXXX0366", v.Mask("4532015112830366", 'X'))
	assert.Equal(t, "***", v.Mask("123", '*'))
	assert.Equal(t, "1234", v.Mask("1234", '*'))
	assert.Equal(t, "", v.Mask("", '*'))
}

func TestComponents(t *testing.T) {
	v := New()
	number := "4532 0151 1283 0366"

	assert.Equal(t, "4532015112830366", v.Normalize(number))
	assert.Equal(t, "453201", v.BIN(number))
	assert.Equal(t, "0366", v.LastFour(number))
	assert.Equal(t, "4532 0151 1283 0366", v.Format("4532015112830366"))
	assert.Equal(t, "3782 8224 6310 005", v.Format("378282246310005"))
	assert.Equal(t, "12", v.LastFour("12"))
}

func TestNormalize_Idempotent(t *testing.T) {
	v := New()
	once := v.Normalize(" 4532-0151 1283.0366 ")
	assert.Equal(t, once, v.Normalize(once))
}
