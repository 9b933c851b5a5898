// Package iso20022 holds the wire structures of the SEPA customer initiation
// messages: pain.001.001.03 (credit transfer) and pain.008.001.02 (direct debit).
package iso20022

import "encoding/xml"

// MessageType identifies an ISO 20022 message definition.
type MessageType string

const (
	Pain001 MessageType = "pain.001.001.03" // CustomerCreditTransferInitiation
	Pain008 MessageType = "pain.008.001.02" // CustomerDirectDebitInitiation
)

const (
	NamespacePain001 = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"
	NamespacePain008 = "urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"
)

// Namespace returns the XML namespace of the message type.
func (t MessageType) Namespace() string {
	return "urn:iso:std:iso:20022:tech:xsd:" + string(t)
}

// Date and timestamp layouts used by the SEPA implementation guidelines.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

const (
	PaymentMethodTransfer    = "TRF"
	PaymentMethodDirectDebit = "DD"
	ServiceLevelSEPA         = "SEPA"
	ChargeBearerSLEV         = "SLEV"
	NotProvided              = "NOTPROVIDED"
)

// Element names of a PostalAddress6 block, in schema order.
const (
	ElementPostalAddress = "PstlAdr"
	ElementStreetName    = "StrtNm"
	ElementPostCode      = "PstCd"
	ElementTownName      = "TwnNm"
	ElementCountry       = "Ctry"
	ElementName          = "Nm"
)

// GroupHeader is the GrpHdr block shared by both initiation messages.
type GroupHeader struct {
	MsgID    string    `xml:"MsgId"`
	CreDtTm  string    `xml:"CreDtTm"`
	NbOfTxs  int       `xml:"NbOfTxs"`
	CtrlSum  string    `xml:"CtrlSum"`
	InitgPty PartyName `xml:"InitgPty"`
}

// PartyName is a party identified by name only.
type PartyName struct {
	Nm string `xml:"Nm"`
}

// Code wraps a <Cd> element.
type Code struct {
	Cd string `xml:"Cd"`
}

// PaymentTypeInformation is PmtTpInf.
type PaymentTypeInformation struct {
	SvcLvl    Code   `xml:"SvcLvl"`
	LclInstrm *Code  `xml:"LclInstrm,omitempty"`
	SeqTp     string `xml:"SeqTp,omitempty"`
}

// Account is a cash account identified by IBAN.
type Account struct {
	ID AccountID `xml:"Id"`
}

type AccountID struct {
	IBAN string `xml:"IBAN"`
}

// Agent is a financial institution identified by BIC, or NOTPROVIDED.
type Agent struct {
	FinInstnID FinancialInstitution `xml:"FinInstnId"`
}

type FinancialInstitution struct {
	BIC  string     `xml:"BIC,omitempty"`
	Othr *GenericID `xml:"Othr,omitempty"`
}

type GenericID struct {
	ID string `xml:"Id"`
}

// NewAgent returns an agent for bic, or a NOTPROVIDED agent when bic is empty.
func NewAgent(bic string) Agent {
	if bic == "" {
		return Agent{FinInstnID: FinancialInstitution{Othr: &GenericID{ID: NotProvided}}}
	}
	return Agent{FinInstnID: FinancialInstitution{BIC: bic}}
}

type PaymentID struct {
	EndToEndID string `xml:"EndToEndId"`
}

// ActiveAmount is an amount with its currency attribute.
type ActiveAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type RemittanceInformation struct {
	Ustrd string `xml:"Ustrd"`
}

// NewRemittance returns nil for empty text so the element is omitted.
func NewRemittance(text string) *RemittanceInformation {
	if text == "" {
		return nil
	}
	return &RemittanceInformation{Ustrd: text}
}

// Message is implemented by both document types.
type Message interface {
	Type() MessageType
	ToXML() ([]byte, error)
}

func marshal(doc interface{}) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
