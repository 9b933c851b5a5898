package sepa

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sepakit/pkg/errors"
)

func validDirectDebitMap() map[string]interface{} {
	return map[string]interface{}{
		"message_id":            "MSG-001",
		"initiating_party_name": "Gym SL",
		"payment_name":          "PMT-001",
		"due_date":              "2025-02-01",
		"creditor_name":         "Gym SL",
		"creditor_iban":         "ES91 2100 0418 4502 0005 1332",
		"creditor_bic":          "CAIXESBBXXX",
		"creditor_id":           "ES12ZZZ12345678",
		"sequence_type":         "frst",
		"instrument_code":       "CORE",
		"creditor_street":       "Calle Mayor 1",
		"creditor_city":         "Madrid",
		"items": []interface{}{
			map[string]interface{}{
				"instruction_id":                "E2E-1",
				"amount":                        "49.90",
				"debtor_iban":                   "GB82WEST12345698765432",
				"debtor_name":                   "John Doe",
				"debtor_mandate":                "MANDATE-1",
				"debtor_mandate_signature_date": "2024-12-01",
				"internal_reference":            "INT-12345",
				"custom_field":                  "customValue",
			},
		},
	}
}

func TestDirectDebitFromMap_SnakeCase(t *testing.T) {
	dd, err := DirectDebitFromMap(validDirectDebitMap(), DefaultAmountPolicy())
	require.NoError(t, err)

	assert.Equal(t, "MSG-001", dd.MessageID)
	assert.Equal(t, "PMT-001", dd.PaymentInfoID)
	assert.Equal(t, SequenceFirst, dd.SequenceType)
	assert.Equal(t, InstrumentCore, dd.LocalInstrument)
	assert.Equal(t, "2025-02-01", dd.DueDate.Format("2006-01-02"))
	require.NotNil(t, dd.Creditor.Address)
	assert.Equal(t, "Calle Mayor 1", dd.Creditor.Address.Street)
	assert.Equal(t, "Madrid", dd.Creditor.Address.City)

	require.Len(t, dd.Transactions, 1)
	tx := dd.Transactions[0]
	assert.Equal(t, "E2E-1", tx.EndToEndID)
	assert.True(t, decimal.RequireFromString("49.9").Equal(tx.Amount))
	assert.Equal(t, "2024-12-01", tx.MandateSignDate.Format("2006-01-02"))
	assert.Nil(t, tx.Debtor.Address)

	v, ok := tx.AdditionalField("internal_reference")
	require.True(t, ok)
	assert.Equal(t, "INT-12345", v)
	assert.Len(t, tx.AdditionalData, 2)
}

func TestGenerateDirectDebitFromMap_AdditionalDataNotSerialized(t *testing.T) {
	out, err := newTestBuilder().GenerateDirectDebitFromMap(validDirectDebitMap())
	require.NoError(t, err)

	assert.Contains(t, out, "<IBAN>ES9121000418450200051332</IBAN>")
	assert.Contains(t, out, "<SeqTp>FRST</SeqTp>")
	assert.Contains(t, out, "<DtOfSgntr>2024-12-01</DtOfSgntr>")
	assert.NotContains(t, out, "INT-12345")
	assert.NotContains(t, out, "customValue")
	assert.NotContains(t, out, "internal_reference")
	assert.Equal(t, 1, strings.Count(out, "<PstlAdr>"))
}

func TestDirectDebitFromMap_CodesPassThroughUppercased(t *testing.T) {
	in := validDirectDebitMap()
	in["sequence_type"] = "rcur"
	in["instrument_code"] = "cor1"

	dd, err := DirectDebitFromMap(in, DefaultAmountPolicy())
	require.NoError(t, err)
	assert.Equal(t, SequenceRecurring, dd.SequenceType)
	assert.Equal(t, LocalInstrument("COR1"), dd.LocalInstrument)
}

func TestDirectDebitFromMap_MandateDateDefaultsToDueDate(t *testing.T) {
	in := validDirectDebitMap()
	tx := in["items"].([]interface{})[0].(map[string]interface{})
	delete(tx, "debtor_mandate_signature_date")

	dd, err := DirectDebitFromMap(in, DefaultAmountPolicy())
	require.NoError(t, err)
	assert.True(t, dd.Transactions[0].MandateSignDate.Equal(dd.DueDate))
}

func TestDirectDebitFromMap_MissingTransactionField(t *testing.T) {
	in := validDirectDebitMap()
	tx := in["items"].([]interface{})[0].(map[string]interface{})
	tx["debtor_mandate"] = nil

	_, err := DirectDebitFromMap(in, DefaultAmountPolicy())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingField))
	assert.Equal(t, "debtorMandate", apperrors.FieldOf(err))
	assert.Equal(t, "missing required transaction field: debtorMandate", err.Error())
}

func TestDirectDebitFromMap_DueDate(t *testing.T) {
	t.Run("time value", func(t *testing.T) {
		in := validDirectDebitMap()
		in["due_date"] = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		dd, err := DirectDebitFromMap(in, DefaultAmountPolicy())
		require.NoError(t, err)
		assert.Equal(t, 5, int(dd.DueDate.Month()))
	})

	t.Run("wrong type", func(t *testing.T) {
		in := validDirectDebitMap()
		in["due_date"] = 20250201
		_, err := DirectDebitFromMap(in, DefaultAmountPolicy())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidFieldType))
		assert.Equal(t, "dueDate", apperrors.FieldOf(err))
	})

	t.Run("unparseable string", func(t *testing.T) {
		in := validDirectDebitMap()
		in["due_date"] = "first of May"
		_, err := DirectDebitFromMap(in, DefaultAmountPolicy())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
	})

	t.Run("datetime string", func(t *testing.T) {
		in := validDirectDebitMap()
		in["due_date"] = "2025-02-03T00:00:00Z"
		dd, err := DirectDebitFromMap(in, DefaultAmountPolicy())
		require.NoError(t, err)
		assert.Equal(t, 3, dd.DueDate.Day())
	})
}

func TestDirectDebitFromMap_TransactionsType(t *testing.T) {
	in := validDirectDebitMap()
	in["items"] = "nope"
	_, err := DirectDebitFromMap(in, DefaultAmountPolicy())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFieldType))

	in["items"] = []interface{}{"nope"}
	_, err = DirectDebitFromMap(in, DefaultAmountPolicy())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFieldType))
}

func TestCreditTransferFromMap_RequiredFields(t *testing.T) {
	_, err := CreditTransferFromMap(map[string]interface{}{
		"reference":        "MSG-1",
		"bankAccountOwner": "Acme",
		"paymentInfoId":    "PMT-1",
		"creditorName":     "Acme",
		"creditorIban":     "DE89370400440532013000",
	}, DefaultAmountPolicy())
	require.Error(t, err)
	assert.Equal(t, "executionDate", apperrors.FieldOf(err))
}

func TestAmountField(t *testing.T) {
	policy := DefaultAmountPolicy()
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"float", 100.5, "100.5"},
		{"int", 42, "42"},
		{"string", " 12.34 ", "12.34"},
		{"json number", json.Number("99.99"), "99.99"},
		{"decimal", decimal.RequireFromString("7.1"), "7.1"},
		{"threshold kept", 10000, "10000"},
		{"cents", 25000, "250"},
		{"cents float rounds", 10000.5, "100.01"},
		{"sub cent rounds", "12.345", "12.35"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := amountField(map[string]interface{}{"amount": tc.in}, "amount", policy)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}

	_, err := amountField(map[string]interface{}{"amount": "abc"}, "amount", policy)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
	_, err = amountField(map[string]interface{}{"amount": []int{1}}, "amount", policy)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFieldType))
}

func TestAddressFromMap_Aliases(t *testing.T) {
	addr := addressFromMap(map[string]interface{}{
		"address":     "Main St 5",
		"postal_code": "1000",
		"country":     "be",
	})
	require.NotNil(t, addr)
	assert.Equal(t, "Main St 5", addr.Street)
	assert.Equal(t, "1000", addr.PostalCode)
	assert.Equal(t, "BE", addr.Country)

	assert.Nil(t, addressFromMap(map[string]interface{}{"city": ""}))
}
