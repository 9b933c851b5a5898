package sepa

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	apperrors "sepakit/pkg/errors"
	"sepakit/pkg/iso20022"
)

// ParsedMessage is the content read back from a pain.001 or pain.008 document.
// PaymentInfoID, RequestedDate and the party fields come from the first PmtInf
// block. NumberOfTransactions, ControlSum and Transactions cover every block.
type ParsedMessage struct {
	Type                 iso20022.MessageType `json:"type"`
	MessageID            string               `json:"messageId"`
	CreationDate         time.Time            `json:"creationDate"`
	InitiatingPartyName  string               `json:"initiatingPartyName"`
	PaymentInfoID        string               `json:"paymentInfoId"`
	NumberOfTransactions int                  `json:"numberOfTransactions"`
	ControlSum           decimal.Decimal      `json:"controlSum"`
	RequestedDate        string               `json:"requestedDate,omitempty"`
	PartyName            string               `json:"partyName,omitempty"`
	PartyIBAN            string               `json:"partyIban,omitempty"`
	PaymentInfoCount     int                  `json:"paymentInfoCount"`
	Transactions         []ParsedTransaction  `json:"transactions"`
}

// ParsedTransaction is one transaction of a parsed document. IBAN and Name
// belong to the counterparty.
type ParsedTransaction struct {
	EndToEndID            string          `json:"endToEndId"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	IBAN                  string          `json:"iban"`
	Name                  string          `json:"name"`
	RemittanceInformation string          `json:"remittanceInformation,omitempty"`
	MandateID             string          `json:"mandateId,omitempty"`
	MandateSignDate       string          `json:"mandateSignDate,omitempty"`
}

// Parser reads generated or third-party SEPA documents.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseCreditTransfer extracts header, payment information and transactions
// from a pain.001.001.03 document.
func (p *Parser) ParseCreditTransfer(document string) (*ParsedMessage, error) {
	return p.parse(document, iso20022.Pain001)
}

// ParseDirectDebit extracts header, payment information and transactions,
// including mandate details, from a pain.008.001.02 document.
func (p *Parser) ParseDirectDebit(document string) (*ParsedMessage, error) {
	return p.parse(document, iso20022.Pain008)
}

// IsValidCreditTransfer reports whether the document has a credit transfer
// initiation with a message id. It never fails.
func (p *Parser) IsValidCreditTransfer(document string) bool {
	return p.isValid(document, iso20022.Pain001)
}

func (p *Parser) IsValidDirectDebit(document string) bool {
	return p.isValid(document, iso20022.Pain008)
}

func (p *Parser) isValid(document string, msgType iso20022.MessageType) bool {
	doc, err := readDocument(document)
	if err != nil {
		return false
	}
	ns := msgType.Namespace()
	root := doc.Root()
	if root == nil {
		return false
	}
	initiation := findChild(root, ns, layouts[msgType].initiation)
	if initiation == nil {
		return false
	}
	return childText(initiation, ns, "GrpHdr", "MsgId") != ""
}

func (p *Parser) parse(document string, msgType iso20022.MessageType) (*ParsedMessage, error) {
	doc, err := readDocument(document)
	if err != nil {
		return nil, apperrors.InvalidFormat("xml", "malformed XML: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, apperrors.InvalidFormat("xml", "document has no root element")
	}

	l := layouts[msgType]
	ns := msgType.Namespace()
	initiation := findChild(root, ns, l.initiation)
	if initiation == nil {
		return nil, apperrors.InvalidFormat("xml", "missing %s element", l.initiation)
	}

	msg := &ParsedMessage{
		Type:                msgType,
		MessageID:           childText(initiation, ns, "GrpHdr", "MsgId"),
		InitiatingPartyName: childText(initiation, ns, "GrpHdr", "InitgPty", "Nm"),
		Transactions:        []ParsedTransaction{},
	}
	if created := childText(initiation, ns, "GrpHdr", "CreDtTm"); created != "" {
		if msg.CreationDate, err = parseDate("CreDtTm", created); err != nil {
			return nil, err
		}
	}

	pmtInfs := findChildren(initiation, ns, "PmtInf")
	if len(pmtInfs) == 0 {
		nb, err := intText(childText(initiation, ns, "GrpHdr", "NbOfTxs"))
		if err != nil {
			return nil, err
		}
		msg.NumberOfTransactions = nb
		return msg, nil
	}

	first := pmtInfs[0]
	msg.PaymentInfoID = childText(first, ns, "PmtInfId")
	msg.PartyName = childText(first, ns, l.party, "Nm")
	msg.PartyIBAN = childText(first, ns, l.party+"Acct", "Id", "IBAN")
	if msgType == iso20022.Pain008 {
		msg.RequestedDate = childText(first, ns, "ReqdColltnDt")
	} else {
		msg.RequestedDate = childText(first, ns, "ReqdExctnDt")
	}
	msg.PaymentInfoCount = len(pmtInfs)

	msg.ControlSum = decimal.Zero
	for _, pmtInf := range pmtInfs {
		nb, err := intText(childText(pmtInf, ns, "NbOfTxs"))
		if err != nil {
			return nil, err
		}
		sum, err := decimalText("CtrlSum", childText(pmtInf, ns, "CtrlSum"))
		if err != nil {
			return nil, err
		}
		msg.NumberOfTransactions += nb
		msg.ControlSum = msg.ControlSum.Add(sum)

		txs, err := parseTransactions(pmtInf, ns, msgType)
		if err != nil {
			return nil, err
		}
		msg.Transactions = append(msg.Transactions, txs...)
	}
	return msg, nil
}

func parseTransactions(pmtInf *etree.Element, ns string, msgType iso20022.MessageType) ([]ParsedTransaction, error) {
	l := layouts[msgType]
	var out []ParsedTransaction
	for _, txEl := range findChildren(pmtInf, ns, l.transaction) {
		tx := ParsedTransaction{
			EndToEndID:            childText(txEl, ns, "PmtId", "EndToEndId"),
			IBAN:                  childText(txEl, ns, l.counterpart+"Acct", "Id", "IBAN"),
			Name:                  childText(txEl, ns, l.counterpart, "Nm"),
			RemittanceInformation: childText(txEl, ns, "RmtInf", "Ustrd"),
		}

		var amt *etree.Element
		if msgType == iso20022.Pain008 {
			amt = descend(txEl, ns, "InstdAmt")
			tx.MandateID = childText(txEl, ns, "DrctDbtTx", "MndtRltdInf", "MndtId")
			tx.MandateSignDate = childText(txEl, ns, "DrctDbtTx", "MndtRltdInf", "DtOfSgntr")
		} else {
			amt = descend(txEl, ns, "Amt", "InstdAmt")
		}
		if amt != nil {
			amount, err := decimalText("InstdAmt", strings.TrimSpace(amt.Text()))
			if err != nil {
				return nil, err
			}
			tx.Amount = amount
			tx.Currency = amt.SelectAttrValue("Ccy", "")
		}
		out = append(out, tx)
	}
	return out, nil
}

func readDocument(document string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromString(document); err != nil {
		return nil, err
	}
	return doc, nil
}

// descend follows a path of child tags.
func descend(el *etree.Element, ns string, path ...string) *etree.Element {
	for _, tag := range path {
		if el = findChild(el, ns, tag); el == nil {
			return nil
		}
	}
	return el
}

func childText(el *etree.Element, ns string, path ...string) string {
	if found := descend(el, ns, path...); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

func intText(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidFormat("NbOfTxs", "NbOfTxs is not an integer: %q", s)
	}
	return n, nil
}

func decimalText(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.InvalidFormat(field, "%s is not a decimal: %q", field, s)
	}
	return d, nil
}
