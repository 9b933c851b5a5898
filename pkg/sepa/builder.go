package sepa

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sepakit/pkg/errors"
	"sepakit/pkg/iso20022"
	"sepakit/pkg/logger"
)

// IBANValidator is the part of the IBAN validator the builder depends on.
type IBANValidator interface {
	Normalize(iban string) string
	Validate(iban string) error
}

// Builder turns payment batches into pain.001 and pain.008 documents. It
// holds no state between calls.
type Builder struct {
	ibans         IBANValidator
	currency      string
	now           func() time.Time
	amounts       AmountPolicy
	injectAddress bool
	logger        logger.Logger
}

type Option func(*Builder)

// WithCurrency sets the Ccy attribute of every amount. Defaults to EUR.
func WithCurrency(ccy string) Option {
	return func(b *Builder) {
		if ccy != "" {
			b.currency = strings.ToUpper(ccy)
		}
	}
}

// WithClock sets the source of the creation timestamp used when a batch has none.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithAmountPolicy sets how map amounts are read.
func WithAmountPolicy(p AmountPolicy) Option {
	return func(b *Builder) { b.amounts = p }
}

// WithAddressInjection toggles the postal address pass.
func WithAddressInjection(enabled bool) Option {
	return func(b *Builder) { b.injectAddress = enabled }
}

func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBuilder(ibans IBANValidator, opts ...Option) *Builder {
	b := &Builder{
		ibans:         ibans,
		currency:      "EUR",
		now:           time.Now,
		amounts:       DefaultAmountPolicy(),
		injectAddress: true,
		logger:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GenerateDirectDebitFromMap normalizes and converts in, then generates the document.
func (b *Builder) GenerateDirectDebitFromMap(in map[string]interface{}) (string, error) {
	dd, err := DirectDebitFromMap(in, b.amounts)
	if err != nil {
		return "", err
	}
	return b.GenerateDirectDebit(dd)
}

// GenerateCreditTransferFromMap normalizes and converts in, then generates the document.
func (b *Builder) GenerateCreditTransferFromMap(in map[string]interface{}) (string, error) {
	ct, err := CreditTransferFromMap(in, b.amounts)
	if err != nil {
		return "", err
	}
	return b.GenerateCreditTransfer(ct)
}

// GenerateDirectDebit validates every IBAN of dd and renders a pain.008.001.02 document.
func (b *Builder) GenerateDirectDebit(dd DirectDebit) (string, error) {
	dd = dd.WithTransactions(roundDirectDebits(dd.Transactions)...)
	if err := b.validateIBAN("creditorIban", "creditor", dd.Creditor.IBAN); err != nil {
		return "", err
	}
	for _, tx := range dd.Transactions {
		if err := b.validateIBAN("debtorIban", "debtor", tx.Debtor.IBAN); err != nil {
			return "", err
		}
	}

	ctrlSum := amountText(dd.TotalAmount())
	pmtInf := iso20022.DirectDebitPaymentInfo{
		PmtInfID:  dd.PaymentInfoID,
		PmtMtd:    iso20022.PaymentMethodDirectDebit,
		BtchBookg: dd.BatchBooking,
		NbOfTxs:   dd.NumberOfTransactions(),
		CtrlSum:   ctrlSum,
		PmtTpInf: iso20022.PaymentTypeInformation{
			SvcLvl:    iso20022.Code{Cd: iso20022.ServiceLevelSEPA},
			LclInstrm: &iso20022.Code{Cd: string(dd.LocalInstrument)},
			SeqTp:     string(dd.SequenceType),
		},
		ReqdColltnDt: dd.DueDate.Format(iso20022.DateLayout),
		Cdtr:         iso20022.PartyName{Nm: dd.Creditor.Name},
		CdtrAcct:     b.account(dd.Creditor.IBAN),
		CdtrAgt:      iso20022.NewAgent(normalizeBIC(dd.Creditor.BIC)),
		ChrgBr:       iso20022.ChargeBearerSLEV,
		CdtrSchmeID:  iso20022.NewCreditorSchemeID(dd.CreditorSchemeID),
		DrctDbtTxInf: make([]iso20022.DirectDebitTransaction, 0, len(dd.Transactions)),
	}

	plan := AddressPlan{Party: dd.Creditor.Address}
	for _, tx := range dd.Transactions {
		signed := tx.MandateSignDate
		if signed.IsZero() {
			signed = dd.DueDate
		}
		pmtInf.DrctDbtTxInf = append(pmtInf.DrctDbtTxInf, iso20022.DirectDebitTransaction{
			PmtID:    iso20022.PaymentID{EndToEndID: tx.EndToEndID},
			InstdAmt: b.amount(tx.Amount),
			DrctDbtTx: iso20022.DirectDebitMandate{MndtRltdInf: iso20022.MandateRelatedInformation{
				MndtID:    tx.MandateID,
				DtOfSgntr: signed.Format(iso20022.DateLayout),
			}},
			DbtrAgt:  iso20022.NewAgent(normalizeBIC(tx.Debtor.BIC)),
			Dbtr:     iso20022.PartyName{Nm: tx.Debtor.Name},
			DbtrAcct: b.account(tx.Debtor.IBAN),
			RmtInf:   iso20022.NewRemittance(tx.RemittanceInformation),
		})
		plan.Transactions = append(plan.Transactions, tx.Debtor.Address)
	}

	doc := iso20022.DirectDebitDocument{
		CstmrDrctDbtInitn: iso20022.CustomerDirectDebit{
			GrpHdr: b.header(dd.MessageID, dd.CreationDate, dd.InitiatingPartyName, dd.NumberOfTransactions(), ctrlSum),
			PmtInf: []iso20022.DirectDebitPaymentInfo{pmtInf},
		},
	}
	return b.render(doc, dd.MessageID, plan)
}

// GenerateCreditTransfer validates every IBAN of ct and renders a pain.001.001.03 document.
func (b *Builder) GenerateCreditTransfer(ct CreditTransfer) (string, error) {
	ct = ct.WithTransactions(roundCreditTransfers(ct.Transactions)...)
	if err := b.validateIBAN("creditorIban", "creditor", ct.Debtor.IBAN); err != nil {
		return "", err
	}
	for _, tx := range ct.Transactions {
		if err := b.validateIBAN("debtorIban", "debtor", tx.Creditor.IBAN); err != nil {
			return "", err
		}
	}

	ctrlSum := amountText(ct.TotalAmount())
	pmtInf := iso20022.CreditTransferPaymentInfo{
		PmtInfID:    ct.PaymentInfoID,
		PmtMtd:      iso20022.PaymentMethodTransfer,
		BtchBookg:   ct.BatchBooking,
		NbOfTxs:     ct.NumberOfTransactions(),
		CtrlSum:     ctrlSum,
		PmtTpInf:    iso20022.PaymentTypeInformation{SvcLvl: iso20022.Code{Cd: iso20022.ServiceLevelSEPA}},
		ReqdExctnDt: ct.ExecutionDate.Format(iso20022.DateLayout),
		Dbtr:        iso20022.PartyName{Nm: ct.Debtor.Name},
		DbtrAcct:    b.account(ct.Debtor.IBAN),
		DbtrAgt:     iso20022.NewAgent(normalizeBIC(ct.Debtor.BIC)),
		ChrgBr:      iso20022.ChargeBearerSLEV,
		CdtTrfTxInf: make([]iso20022.CreditTransferTransaction, 0, len(ct.Transactions)),
	}

	plan := AddressPlan{Party: ct.Debtor.Address}
	for _, tx := range ct.Transactions {
		out := iso20022.CreditTransferTransaction{
			PmtID:    iso20022.PaymentID{EndToEndID: tx.EndToEndID},
			Amt:      iso20022.InstructedAmount{InstdAmt: b.amount(tx.Amount)},
			Cdtr:     iso20022.PartyName{Nm: tx.Creditor.Name},
			CdtrAcct: b.account(tx.Creditor.IBAN),
			RmtInf:   iso20022.NewRemittance(tx.RemittanceInformation),
		}
		if bic := normalizeBIC(tx.Creditor.BIC); bic != "" {
			agent := iso20022.NewAgent(bic)
			out.CdtrAgt = &agent
		}
		pmtInf.CdtTrfTxInf = append(pmtInf.CdtTrfTxInf, out)
		plan.Transactions = append(plan.Transactions, tx.Creditor.Address)
	}

	doc := iso20022.CreditTransferDocument{
		CstmrCdtTrfInitn: iso20022.CustomerCreditTransfer{
			GrpHdr: b.header(ct.MessageID, ct.CreationDate, ct.InitiatingPartyName, ct.NumberOfTransactions(), ctrlSum),
			PmtInf: []iso20022.CreditTransferPaymentInfo{pmtInf},
		},
	}
	return b.render(doc, ct.MessageID, plan)
}

func (b *Builder) validateIBAN(field, role, iban string) error {
	if err := b.ibans.Validate(iban); err != nil {
		return apperrors.InvalidArgument(field, "invalid "+role+" IBAN: "+iban, err)
	}
	return nil
}

func (b *Builder) header(msgID string, created time.Time, initiator string, count int, ctrlSum string) iso20022.GroupHeader {
	if created.IsZero() {
		created = b.now()
	}
	return iso20022.GroupHeader{
		MsgID:    msgID,
		CreDtTm:  created.Format(iso20022.DateTimeLayout),
		NbOfTxs:  count,
		CtrlSum:  ctrlSum,
		InitgPty: iso20022.PartyName{Nm: initiator},
	}
}

func (b *Builder) account(iban string) iso20022.Account {
	return iso20022.Account{ID: iso20022.AccountID{IBAN: b.ibans.Normalize(iban)}}
}

func (b *Builder) amount(v decimal.Decimal) iso20022.ActiveAmount {
	return iso20022.ActiveAmount{Ccy: b.currency, Value: amountText(v)}
}

func (b *Builder) render(doc iso20022.Message, msgID string, plan AddressPlan) (string, error) {
	data, err := doc.ToXML()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize "+string(doc.Type()))
	}
	out := string(data)

	if b.injectAddress && plan.HasAddresses() {
		injected, err := InjectAddresses(out, doc.Type(), plan)
		if err != nil {
			b.logger.Warn("Address injection skipped", map[string]interface{}{
				"message_id":   msgID,
				"message_type": string(doc.Type()),
				"error":        err.Error(),
			})
		} else {
			out = injected
		}
	}

	b.logger.Debug("Generated SEPA message", map[string]interface{}{
		"message_id":   msgID,
		"message_type": string(doc.Type()),
		"bytes":        len(out),
	})
	return out, nil
}

// Amounts are rounded to cents before totals are taken so that CtrlSum
// always equals the sum of the emitted InstdAmt values.
func roundDirectDebits(txs []DirectDebitTransaction) []DirectDebitTransaction {
	out := make([]DirectDebitTransaction, len(txs))
	for i, tx := range txs {
		tx.Amount = tx.Amount.Round(2)
		out[i] = tx
	}
	return out
}

func roundCreditTransfers(txs []CreditTransferTransaction) []CreditTransferTransaction {
	out := make([]CreditTransferTransaction, len(txs))
	for i, tx := range txs {
		tx.Amount = tx.Amount.Round(2)
		out[i] = tx
	}
	return out
}

func amountText(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func normalizeBIC(bic string) string {
	return strings.ToUpper(strings.Join(strings.Fields(bic), ""))
}
