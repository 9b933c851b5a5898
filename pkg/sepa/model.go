// Package sepa builds and parses SEPA payment initiation messages: credit
// transfers (pain.001.001.03) and direct debits (pain.008.001.02).
package sepa

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SequenceType is the direct debit sequence within a mandate.
type SequenceType string

const (
	SequenceFirst     SequenceType = "FRST"
	SequenceRecurring SequenceType = "RCUR"
	SequenceOneOff    SequenceType = "OOFF"
	SequenceFinal     SequenceType = "FNAL"
)

// LocalInstrument is the direct debit scheme.
type LocalInstrument string

const (
	InstrumentCore LocalInstrument = "CORE"
	InstrumentB2B  LocalInstrument = "B2B"
)

// Address is an optional postal address. Empty fields are left out of the XML.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// IsEmpty reports whether every field is blank.
func (a *Address) IsEmpty() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}

// Party is an account holder.
type Party struct {
	Name    string   `json:"name"`
	IBAN    string   `json:"iban"`
	BIC     string   `json:"bic,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// CreditTransfer is a pain.001 batch: one ordering account paying every
// transaction's creditor.
type CreditTransfer struct {
	MessageID           string                      `json:"messageId"`
	CreationDate        time.Time                   `json:"creationDate"`
	InitiatingPartyName string                      `json:"initiatingPartyName"`
	PaymentInfoID       string                      `json:"paymentInfoId"`
	ExecutionDate       time.Time                   `json:"executionDate"`
	BatchBooking        *bool                       `json:"batchBooking,omitempty"`
	Debtor              Party                       `json:"debtor"`
	Transactions        []CreditTransferTransaction `json:"transactions"`
}

// CreditTransferTransaction is a single payment of a credit transfer batch.
type CreditTransferTransaction struct {
	EndToEndID            string                 `json:"endToEndId"`
	Amount                decimal.Decimal        `json:"amount"`
	Creditor              Party                  `json:"creditor"`
	RemittanceInformation string                 `json:"remittanceInformation,omitempty"`
	AdditionalData        map[string]interface{} `json:"-"`
}

// AdditionalField returns a caller-supplied value that is never serialized.
func (t CreditTransferTransaction) AdditionalField(key string) (interface{}, bool) {
	v, ok := t.AdditionalData[key]
	return v, ok
}

// AddTransaction returns a copy of the batch with tx appended.
func (c CreditTransfer) AddTransaction(tx CreditTransferTransaction) CreditTransfer {
	txs := make([]CreditTransferTransaction, len(c.Transactions), len(c.Transactions)+1)
	copy(txs, c.Transactions)
	c.Transactions = append(txs, tx)
	return c
}

// WithTransactions returns a copy of the batch holding txs in place of its
// current transactions.
func (c CreditTransfer) WithTransactions(txs ...CreditTransferTransaction) CreditTransfer {
	c.Transactions = append([]CreditTransferTransaction(nil), txs...)
	return c
}

// NumberOfTransactions returns the transaction count.
func (c CreditTransfer) NumberOfTransactions() int {
	return len(c.Transactions)
}

// TotalAmount returns the control sum.
func (c CreditTransfer) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range c.Transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// DirectDebit is a pain.008 batch: one creditor collecting from every
// transaction's debtor under a mandate.
type DirectDebit struct {
	MessageID           string                   `json:"messageId"`
	CreationDate        time.Time                `json:"creationDate"`
	InitiatingPartyName string                   `json:"initiatingPartyName"`
	PaymentInfoID       string                   `json:"paymentInfoId"`
	DueDate             time.Time                `json:"dueDate"`
	Creditor            Party                    `json:"creditor"`
	CreditorSchemeID    string                   `json:"creditorId"`
	SequenceType        SequenceType             `json:"seqType"`
	LocalInstrument     LocalInstrument          `json:"localInstrumentCode"`
	BatchBooking        *bool                    `json:"batchBooking,omitempty"`
	Transactions        []DirectDebitTransaction `json:"transactions"`
}

// DirectDebitTransaction is a single collection of a direct debit batch.
type DirectDebitTransaction struct {
	EndToEndID            string                 `json:"endToEndId"`
	Amount                decimal.Decimal        `json:"amount"`
	Debtor                Party                  `json:"debtor"`
	MandateID             string                 `json:"debtorMandate"`
	MandateSignDate       time.Time              `json:"debtorMandateSignDate"`
	RemittanceInformation string                 `json:"remittanceInformation,omitempty"`
	AdditionalData        map[string]interface{} `json:"-"`
}

// AdditionalField returns a caller-supplied value that is never serialized.
func (t DirectDebitTransaction) AdditionalField(key string) (interface{}, bool) {
	v, ok := t.AdditionalData[key]
	return v, ok
}

// AddTransaction returns a copy of the batch with tx appended.
func (d DirectDebit) AddTransaction(tx DirectDebitTransaction) DirectDebit {
	txs := make([]DirectDebitTransaction, len(d.Transactions), len(d.Transactions)+1)
	copy(txs, d.Transactions)
	d.Transactions = append(txs, tx)
	return d
}

func (d DirectDebit) WithTransactions(txs ...DirectDebitTransaction) DirectDebit {
	d.Transactions = append([]DirectDebitTransaction(nil), txs...)
	return d
}

func (d DirectDebit) NumberOfTransactions() int {
	return len(d.Transactions)
}

func (d DirectDebit) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range d.Transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// Mandate is a debtor's authorization to be collected by direct debit.
type Mandate struct {
	ID            string          `json:"mandateId"`
	SignatureDate time.Time       `json:"signatureDate"`
	DebtorIBAN    string          `json:"debtorIban"`
	DebtorBIC     string          `json:"debtorBic,omitempty"`
	DebtorName    string          `json:"debtorName"`
	Type          LocalInstrument `json:"type"`
	SequenceType  SequenceType    `json:"sequenceType"`
	Active        bool            `json:"active"`
}

// NewMandate returns an active CORE mandate for a first collection.
func NewMandate(id string, signed time.Time, debtorIBAN, debtorName string) Mandate {
	return Mandate{
		ID:            id,
		SignatureDate: signed,
		DebtorIBAN:    debtorIBAN,
		DebtorName:    debtorName,
		Type:          InstrumentCore,
		SequenceType:  SequenceFirst,
		Active:        true,
	}
}

// Transaction returns a collection under this mandate.
func (m Mandate) Transaction(endToEndID string, amount decimal.Decimal) DirectDebitTransaction {
	return DirectDebitTransaction{
		EndToEndID:      endToEndID,
		Amount:          amount,
		Debtor:          Party{Name: m.DebtorName, IBAN: m.DebtorIBAN, BIC: m.DebtorBIC},
		MandateID:       m.ID,
		MandateSignDate: m.SignatureDate,
	}
}
