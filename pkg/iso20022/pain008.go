package iso20022

import "encoding/xml"

// DirectDebitDocument is a pain.008.001.02 Document.
type DirectDebitDocument struct {
	XMLName           xml.Name            `xml:"urn:iso:std:iso:20022:tech:xsd:pain.008.001.02 Document"`
	CstmrDrctDbtInitn CustomerDirectDebit `xml:"CstmrDrctDbtInitn"`
}

type CustomerDirectDebit struct {
	GrpHdr GroupHeader              `xml:"GrpHdr"`
	PmtInf []DirectDebitPaymentInfo `xml:"PmtInf"`
}

// DirectDebitPaymentInfo is the PmtInf block of a direct debit.
type DirectDebitPaymentInfo struct {
	PmtInfID     string                   `xml:"PmtInfId"`
	PmtMtd       string                   `xml:"PmtMtd"`
	BtchBookg    *bool                    `xml:"BtchBookg,omitempty"`
	NbOfTxs      int                      `xml:"NbOfTxs"`
	CtrlSum      string                   `xml:"CtrlSum"`
	PmtTpInf     PaymentTypeInformation   `xml:"PmtTpInf"`
	ReqdColltnDt string                   `xml:"ReqdColltnDt"`
	Cdtr         PartyName                `xml:"Cdtr"`
	CdtrAcct     Account                  `xml:"CdtrAcct"`
	CdtrAgt      Agent                    `xml:"CdtrAgt"`
	ChrgBr       string                   `xml:"ChrgBr"`
	CdtrSchmeID  CreditorSchemeID         `xml:"CdtrSchmeId"`
	DrctDbtTxInf []DirectDebitTransaction `xml:"DrctDbtTxInf"`
}

// CreditorSchemeID carries the SEPA creditor identifier.
type CreditorSchemeID struct {
	ID struct {
		PrvtID struct {
			Othr SchemeOther `xml:"Othr"`
		} `xml:"PrvtId"`
	} `xml:"Id"`
}

type SchemeOther struct {
	ID      string `xml:"Id"`
	SchmeNm struct {
		Prtry string `xml:"Prtry"`
	} `xml:"SchmeNm"`
}

// NewCreditorSchemeID builds the SEPA scheme identification for id.
func NewCreditorSchemeID(id string) CreditorSchemeID {
	var s CreditorSchemeID
	s.ID.PrvtID.Othr.ID = id
	s.ID.PrvtID.Othr.SchmeNm.Prtry = ServiceLevelSEPA
	return s
}

// DirectDebitTransaction is a DrctDbtTxInf entry.
type DirectDebitTransaction struct {
	PmtID     PaymentID              `xml:"PmtId"`
	InstdAmt  ActiveAmount           `xml:"InstdAmt"`
	DrctDbtTx DirectDebitMandate     `xml:"DrctDbtTx"`
	DbtrAgt   Agent                  `xml:"DbtrAgt"`
	Dbtr      PartyName              `xml:"Dbtr"`
	DbtrAcct  Account                `xml:"DbtrAcct"`
	RmtInf    *RemittanceInformation `xml:"RmtInf,omitempty"`
}

type DirectDebitMandate struct {
	MndtRltdInf MandateRelatedInformation `xml:"MndtRltdInf"`
}

type MandateRelatedInformation struct {
	MndtID    string `xml:"MndtId"`
	DtOfSgntr string `xml:"DtOfSgntr"`
}

func (d DirectDebitDocument) Type() MessageType { return Pain008 }

// ToXML renders the document with an XML declaration.
func (d DirectDebitDocument) ToXML() ([]byte, error) {
	return marshal(d)
}
