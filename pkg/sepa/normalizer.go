package sepa

// Canonical keys of the map input.
const (
	KeyReference             = "reference"
	KeyBankAccountOwner      = "bankAccountOwner"
	KeyPaymentInfoID         = "paymentInfoId"
	KeyDueDate               = "dueDate"
	KeyExecutionDate         = "executionDate"
	KeyCreationDate          = "creationDate"
	KeyCreditorName          = "creditorName"
	KeyCreditorIBAN          = "creditorIban"
	KeyCreditorBIC           = "creditorBic"
	KeyCreditorID            = "creditorId"
	KeyCreditorAddress       = "creditorAddress"
	KeySeqType               = "seqType"
	KeyLocalInstrumentCode   = "localInstrumentCode"
	KeyBatchBooking          = "batchBooking"
	KeyCurrency              = "currency"
	KeyTransactions          = "transactions"
	KeyAmount                = "amount"
	KeyEndToEndID            = "endToEndId"
	KeyDebtorIBAN            = "debtorIban"
	KeyDebtorName            = "debtorName"
	KeyDebtorBIC             = "debtorBic"
	KeyDebtorMandate         = "debtorMandate"
	KeyDebtorMandateSignDate = "debtorMandateSignDate"
	KeyDebtorAddress         = "debtorAddress"
	KeyRemittanceInformation = "remittanceInformation"
)

var paymentAliases = map[string]string{
	"message_id":                KeyReference,
	"messageId":                 KeyReference,
	"initiating_party_name":     KeyBankAccountOwner,
	"initiatingPartyName":       KeyBankAccountOwner,
	"bank_account_owner":        KeyBankAccountOwner,
	"payment_name":              KeyPaymentInfoID,
	"payment_info_id":           KeyPaymentInfoID,
	"payment_id":                KeyPaymentInfoID,
	"due_date":                  KeyDueDate,
	"requested_collection_date": KeyDueDate,
	"execution_date":            KeyExecutionDate,
	"requested_execution_date":  KeyExecutionDate,
	"requestedExecutionDate":    KeyExecutionDate,
	"creation_date":             KeyCreationDate,
	"creditor_name":             KeyCreditorName,
	"creditor_iban":             KeyCreditorIBAN,
	"creditor_bic":              KeyCreditorBIC,
	"creditor_id":               KeyCreditorID,
	"creditor_address":          KeyCreditorAddress,
	"sequence_type":             KeySeqType,
	"seq_type":                  KeySeqType,
	"instrument_code":           KeyLocalInstrumentCode,
	"local_instrument_code":     KeyLocalInstrumentCode,
	"batch_booking":             KeyBatchBooking,
	"items":                     KeyTransactions,
}

var transactionAliases = map[string]string{
	"instruction_id":                KeyEndToEndID,
	"end_to_end_id":                 KeyEndToEndID,
	"debtor_iban":                   KeyDebtorIBAN,
	"debtor_name":                   KeyDebtorName,
	"debtor_bic":                    KeyDebtorBIC,
	"debtor_mandate":                KeyDebtorMandate,
	"debtor_address":                KeyDebtorAddress,
	"debtor_mandate_signature_date": KeyDebtorMandateSignDate,
	"debtor_mandate_sign_date":      KeyDebtorMandateSignDate,
	"mandate_sign_date":             KeyDebtorMandateSignDate,
	"information":                   KeyRemittanceInformation,
	"remittance_information":        KeyRemittanceInformation,
}

// Flattened address keys, by prefix, folded into the nested address map.
var addressSuffixes = map[string]string{
	"street":      "street",
	"city":        "city",
	"postal_code": "postalCode",
	"postalCode":  "postalCode",
	"country":     "country",
}

// Keys a transaction map may carry that end up in the XML. Everything else
// is kept as additional data.
var knownTransactionKeys = map[string]bool{
	KeyAmount:                true,
	KeyEndToEndID:            true,
	KeyDebtorIBAN:            true,
	KeyDebtorName:            true,
	KeyDebtorBIC:             true,
	KeyDebtorMandate:         true,
	KeyDebtorMandateSignDate: true,
	KeyDebtorAddress:         true,
	KeyRemittanceInformation: true,
}

// NormalizePayment renames aliased top-level keys to their canonical form and
// normalizes every transaction entry. The input map is not modified.
func NormalizePayment(in map[string]interface{}) map[string]interface{} {
	out := normalizeKeys(in, paymentAliases, "creditor", KeyCreditorAddress)

	switch txs := out[KeyTransactions].(type) {
	case []map[string]interface{}:
		normalized := make([]map[string]interface{}, len(txs))
		for i, tx := range txs {
			normalized[i] = NormalizeTransaction(tx)
		}
		out[KeyTransactions] = normalized
	case []interface{}:
		normalized := make([]interface{}, len(txs))
		for i, tx := range txs {
			if m, ok := tx.(map[string]interface{}); ok {
				normalized[i] = NormalizeTransaction(m)
			} else {
				normalized[i] = tx
			}
		}
		out[KeyTransactions] = normalized
	}
	return out
}

// NormalizeTransaction renames aliased transaction keys.
func NormalizeTransaction(in map[string]interface{}) map[string]interface{} {
	return normalizeKeys(in, transactionAliases, "debtor", KeyDebtorAddress)
}

// AdditionalData returns the keys of a normalized transaction that are not
// part of the message.
func AdditionalData(tx map[string]interface{}) map[string]interface{} {
	var extra map[string]interface{}
	for k, v := range tx {
		if knownTransactionKeys[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[k] = v
	}
	return extra
}

func normalizeKeys(in map[string]interface{}, aliases map[string]string, addressPrefix, addressKey string) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	var flat map[string]interface{}

	for k, v := range in {
		if canonical, ok := aliases[k]; ok {
			// An explicit canonical key wins over its alias.
			if _, exists := in[canonical]; exists {
				continue
			}
			out[canonical] = v
			continue
		}
		if field, ok := flattenedAddressField(k, addressPrefix); ok {
			if flat == nil {
				flat = make(map[string]interface{})
			}
			flat[field] = v
			continue
		}
		out[k] = v
	}

	if flat != nil {
		merged := make(map[string]interface{}, len(flat))
		if existing, ok := out[addressKey].(map[string]interface{}); ok {
			for k, v := range existing {
				merged[k] = v
			}
		}
		for k, v := range flat {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		out[addressKey] = merged
	}
	return out
}

// flattenedAddressField maps e.g. "debtor_postal_code" to "postalCode".
func flattenedAddressField(key, prefix string) (string, bool) {
	for _, sep := range []string{"_", ""} {
		p := prefix + sep
		if len(key) <= len(p) || key[:len(p)] != p {
			continue
		}
		suffix := key[len(p):]
		if sep == "" {
			// camelCase: debtorStreet, debtorPostalCode
			if suffix[0] < 'A' || suffix[0] > 'Z' {
				continue
			}
			suffix = string(suffix[0]+('a'-'A')) + suffix[1:]
		}
		if field, ok := addressSuffixes[suffix]; ok {
			return field, true
		}
	}
	return "", false
}
