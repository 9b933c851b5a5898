package iso20022

import "encoding/xml"

// CreditTransferDocument is a pain.001.001.03 Document.
type CreditTransferDocument struct {
	XMLName          xml.Name               `xml:"urn:iso:std:iso:20022:tech:xsd:pain.001.001.03 Document"`
	CstmrCdtTrfInitn CustomerCreditTransfer `xml:"CstmrCdtTrfInitn"`
}

type CustomerCreditTransfer struct {
	GrpHdr GroupHeader                 `xml:"GrpHdr"`
	PmtInf []CreditTransferPaymentInfo `xml:"PmtInf"`
}

// CreditTransferPaymentInfo is the PmtInf block of a credit transfer.
type CreditTransferPaymentInfo struct {
	PmtInfID    string                      `xml:"PmtInfId"`
	PmtMtd      string                      `xml:"PmtMtd"`
	BtchBookg   *bool                       `xml:"BtchBookg,omitempty"`
	NbOfTxs     int                         `xml:"NbOfTxs"`
	CtrlSum     string                      `xml:"CtrlSum"`
	PmtTpInf    PaymentTypeInformation      `xml:"PmtTpInf"`
	ReqdExctnDt string                      `xml:"ReqdExctnDt"`
	Dbtr        PartyName                   `xml:"Dbtr"`
	DbtrAcct    Account                     `xml:"DbtrAcct"`
	DbtrAgt     Agent                       `xml:"DbtrAgt"`
	ChrgBr      string                      `xml:"ChrgBr"`
	CdtTrfTxInf []CreditTransferTransaction `xml:"CdtTrfTxInf"`
}

// CreditTransferTransaction is a CdtTrfTxInf entry.
type CreditTransferTransaction struct {
	PmtID    PaymentID              `xml:"PmtId"`
	Amt      InstructedAmount       `xml:"Amt"`
	CdtrAgt  *Agent                 `xml:"CdtrAgt,omitempty"`
	Cdtr     PartyName              `xml:"Cdtr"`
	CdtrAcct Account                `xml:"CdtrAcct"`
	RmtInf   *RemittanceInformation `xml:"RmtInf,omitempty"`
}

type InstructedAmount struct {
	InstdAmt ActiveAmount `xml:"InstdAmt"`
}

func (d CreditTransferDocument) Type() MessageType { return Pain001 }

// ToXML renders the document with an XML declaration.
func (d CreditTransferDocument) ToXML() ([]byte, error) {
	return marshal(d)
}
