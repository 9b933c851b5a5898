package sepa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sepakit/pkg/errors"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// AmountPolicy controls how map-sourced amounts are interpreted.
type AmountPolicy struct {
	// MinorUnitHeuristic treats amounts strictly above MinorUnitThreshold as
	// cents and divides them by 100.
	MinorUnitHeuristic bool
	MinorUnitThreshold decimal.Decimal
}

// DefaultAmountPolicy keeps the compatibility heuristic on with a 10000 threshold.
func DefaultAmountPolicy() AmountPolicy {
	return AmountPolicy{
		MinorUnitHeuristic: true,
		MinorUnitThreshold: decimal.NewFromInt(10000),
	}
}

// Apply returns the amount in currency units, rounded half away from zero
// to cents.
func (p AmountPolicy) Apply(amount decimal.Decimal) decimal.Decimal {
	if p.MinorUnitHeuristic && amount.GreaterThan(p.MinorUnitThreshold) {
		amount = amount.Div(decimal.NewFromInt(100))
	}
	return amount.Round(2)
}

var (
	directDebitRequired = []string{
		KeyReference, KeyBankAccountOwner, KeyPaymentInfoID, KeyDueDate, KeyCreditorName,
		KeyCreditorIBAN, KeySeqType, KeyCreditorID, KeyLocalInstrumentCode,
	}
	directDebitTxRequired = []string{
		KeyAmount, KeyDebtorIBAN, KeyDebtorName, KeyDebtorMandate, KeyEndToEndID,
	}
	creditTransferRequired = []string{
		KeyReference, KeyBankAccountOwner, KeyPaymentInfoID, KeyExecutionDate, KeyCreditorName, KeyCreditorIBAN,
	}
	creditTransferTxRequired = []string{
		KeyAmount, KeyDebtorIBAN, KeyDebtorName, KeyEndToEndID,
	}
)

// DirectDebitFromMap converts loosely-typed input into a DirectDebit. Keys
// are normalized first. seqType and localInstrumentCode are uppercased but not
// checked against the SequenceType and LocalInstrument constants.
func DirectDebitFromMap(in map[string]interface{}, policy AmountPolicy) (DirectDebit, error) {
	data := NormalizePayment(in)
	if err := requireFields(data, directDebitRequired, apperrors.MissingField); err != nil {
		return DirectDebit{}, err
	}

	dueDate, err := dateField(data, KeyDueDate)
	if err != nil {
		return DirectDebit{}, err
	}
	creation, err := optionalDateField(data, KeyCreationDate)
	if err != nil {
		return DirectDebit{}, err
	}
	batch, err := optionalBoolField(data, KeyBatchBooking)
	if err != nil {
		return DirectDebit{}, err
	}
	creditorAddress, err := addressField(data, KeyCreditorAddress)
	if err != nil {
		return DirectDebit{}, err
	}
	entries, err := transactionEntries(data)
	if err != nil {
		return DirectDebit{}, err
	}

	dd := DirectDebit{
		MessageID:           stringField(data, KeyReference),
		CreationDate:        creation,
		InitiatingPartyName: stringField(data, KeyBankAccountOwner),
		PaymentInfoID:       stringField(data, KeyPaymentInfoID),
		DueDate:             dueDate,
		Creditor: Party{
			Name:    stringField(data, KeyCreditorName),
			IBAN:    stringField(data, KeyCreditorIBAN),
			BIC:     stringField(data, KeyCreditorBIC),
			Address: creditorAddress,
		},
		CreditorSchemeID: stringField(data, KeyCreditorID),
		SequenceType:     SequenceType(strings.ToUpper(stringField(data, KeySeqType))),
		LocalInstrument:  LocalInstrument(strings.ToUpper(stringField(data, KeyLocalInstrumentCode))),
		BatchBooking:     batch,
	}

	for _, entry := range entries {
		if err := requireFields(entry, directDebitTxRequired, apperrors.MissingTransactionField); err != nil {
			return DirectDebit{}, err
		}
		amount, err := amountField(entry, KeyAmount, policy)
		if err != nil {
			return DirectDebit{}, err
		}
		signed := dueDate
		if _, ok := entry[KeyDebtorMandateSignDate]; ok {
			if signed, err = dateField(entry, KeyDebtorMandateSignDate); err != nil {
				return DirectDebit{}, err
			}
		}
		address, err := addressField(entry, KeyDebtorAddress)
		if err != nil {
			return DirectDebit{}, err
		}
		dd = dd.AddTransaction(DirectDebitTransaction{
			EndToEndID: stringField(entry, KeyEndToEndID),
			Amount:     amount,
			Debtor: Party{
				Name:    stringField(entry, KeyDebtorName),
				IBAN:    stringField(entry, KeyDebtorIBAN),
				BIC:     stringField(entry, KeyDebtorBIC),
				Address: address,
			},
			MandateID:             stringField(entry, KeyDebtorMandate),
			MandateSignDate:       signed,
			RemittanceInformation: stringField(entry, KeyRemittanceInformation),
			AdditionalData:        AdditionalData(entry),
		})
	}
	return dd, nil
}

// CreditTransferFromMap converts loosely-typed input into a CreditTransfer.
// The map uses the legacy naming: creditor* is the ordering account and each
// transaction's debtor* is the beneficiary.
func CreditTransferFromMap(in map[string]interface{}, policy AmountPolicy) (CreditTransfer, error) {
	data := NormalizePayment(in)
	if err := requireFields(data, creditTransferRequired, apperrors.MissingField); err != nil {
		return CreditTransfer{}, err
	}

	execution, err := dateField(data, KeyExecutionDate)
	if err != nil {
		return CreditTransfer{}, err
	}
	creation, err := optionalDateField(data, KeyCreationDate)
	if err != nil {
		return CreditTransfer{}, err
	}
	batch, err := optionalBoolField(data, KeyBatchBooking)
	if err != nil {
		return CreditTransfer{}, err
	}
	orderingAddress, err := addressField(data, KeyCreditorAddress)
	if err != nil {
		return CreditTransfer{}, err
	}
	entries, err := transactionEntries(data)
	if err != nil {
		return CreditTransfer{}, err
	}

	ct := CreditTransfer{
		MessageID:           stringField(data, KeyReference),
		CreationDate:        creation,
		InitiatingPartyName: stringField(data, KeyBankAccountOwner),
		PaymentInfoID:       stringField(data, KeyPaymentInfoID),
		ExecutionDate:       execution,
		BatchBooking:        batch,
		Debtor: Party{
			Name:    stringField(data, KeyCreditorName),
			IBAN:    stringField(data, KeyCreditorIBAN),
			BIC:     stringField(data, KeyCreditorBIC),
			Address: orderingAddress,
		},
	}

	for _, entry := range entries {
		if err := requireFields(entry, creditTransferTxRequired, apperrors.MissingTransactionField); err != nil {
			return CreditTransfer{}, err
		}
		amount, err := amountField(entry, KeyAmount, policy)
		if err != nil {
			return CreditTransfer{}, err
		}
		address, err := addressField(entry, KeyDebtorAddress)
		if err != nil {
			return CreditTransfer{}, err
		}
		ct = ct.AddTransaction(CreditTransferTransaction{
			EndToEndID: stringField(entry, KeyEndToEndID),
			Amount:     amount,
			Creditor: Party{
				Name:    stringField(entry, KeyDebtorName),
				IBAN:    stringField(entry, KeyDebtorIBAN),
				BIC:     stringField(entry, KeyDebtorBIC),
				Address: address,
			},
			RemittanceInformation: stringField(entry, KeyRemittanceInformation),
			AdditionalData:        AdditionalData(entry),
		})
	}
	return ct, nil
}

func requireFields(data map[string]interface{}, keys []string, missing func(string) *apperrors.Error) error {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			return missing(k)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return missing(k)
		}
	}
	return nil
}

func transactionEntries(data map[string]interface{}) ([]map[string]interface{}, error) {
	raw, ok := data[KeyTransactions]
	if !ok || raw == nil {
		return nil, nil
	}
	switch txs := raw.(type) {
	case []map[string]interface{}:
		return txs, nil
	case []interface{}:
		entries := make([]map[string]interface{}, 0, len(txs))
		for i, tx := range txs {
			m, ok := tx.(map[string]interface{})
			if !ok {
				return nil, apperrors.InvalidFieldType(fmt.Sprintf("%s[%d]", KeyTransactions, i), "an object", tx)
			}
			entries = append(entries, m)
		}
		return entries, nil
	default:
		return nil, apperrors.InvalidFieldType(KeyTransactions, "a list", raw)
	}
}

func stringField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func dateField(data map[string]interface{}, key string) (time.Time, error) {
	switch v := data[key].(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
	case string:
		return parseDate(key, v)
	}
	return time.Time{}, apperrors.InvalidFieldType(key, "a date string or time.Time", data[key])
}

func optionalDateField(data map[string]interface{}, key string) (time.Time, error) {
	if v, ok := data[key]; !ok || v == nil {
		return time.Time{}, nil
	}
	return dateField(data, key)
}

func parseDate(key, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.InvalidFormat(key, "%s: unrecognized date %q", key, s)
}

func optionalBoolField(data map[string]interface{}, key string) (*bool, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, apperrors.InvalidFormat(key, "%s: not a boolean: %q", key, v)
		}
		return &b, nil
	default:
		return nil, apperrors.InvalidFieldType(key, "a boolean", v)
	}
}

func amountField(data map[string]interface{}, key string, policy AmountPolicy) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch v := data[key].(type) {
	case decimal.Decimal:
		amount = v
	case float64:
		amount = decimal.NewFromFloat(v)
	case float32:
		amount = decimal.NewFromFloat32(v)
	case int:
		amount = decimal.NewFromInt(int64(v))
	case int64:
		amount = decimal.NewFromInt(v)
	case int32:
		amount = decimal.NewFromInt32(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, apperrors.InvalidFormat(key, "%s: not a number: %q", key, v.String())
		}
		amount = d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, apperrors.InvalidFormat(key, "%s: not a number: %q", key, v)
		}
		amount = d
	default:
		return decimal.Zero, apperrors.InvalidFieldType(key, "a number", v)
	}
	return policy.Apply(amount), nil
}

func addressField(data map[string]interface{}, key string) (*Address, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case *Address:
		return v, nil
	case Address:
		return &v, nil
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		return addressFromMap(m), nil
	case map[string]interface{}:
		return addressFromMap(v), nil
	default:
		return nil, apperrors.InvalidFieldType(key, "an address object", raw)
	}
}

func addressFromMap(m map[string]interface{}) *Address {
	street := stringField(m, "street")
	if street == "" {
		street = stringField(m, "address")
	}
	postal := stringField(m, "postalCode")
	if postal == "" {
		postal = stringField(m, "postal_code")
	}
	addr := &Address{
		Street:     street,
		City:       stringField(m, "city"),
		PostalCode: postal,
		Country:    strings.ToUpper(stringField(m, "country")),
	}
	if addr.IsEmpty() {
		return nil
	}
	return addr
}
