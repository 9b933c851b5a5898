package sepa

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"sepakit/pkg/iso20022"
)

// AddressPlan lists the postal addresses to add to a generated document.
// Party is the payment information party (the creditor of a direct debit,
// the ordering debtor of a credit transfer). Transactions is indexed like the
// document's transactions and addresses their counterparty.
type AddressPlan struct {
	Party        *Address
	Transactions []*Address
}

// HasAddresses reports whether any address in the plan has a non-empty field.
func (p AddressPlan) HasAddresses() bool {
	if !p.Party.IsEmpty() {
		return true
	}
	for _, a := range p.Transactions {
		if !a.IsEmpty() {
			return true
		}
	}
	return false
}

type layout struct {
	initiation  string
	party       string
	transaction string
	counterpart string
}

var layouts = map[iso20022.MessageType]layout{
	iso20022.Pain001: {initiation: "CstmrCdtTrfInitn", party: "Dbtr", transaction: "CdtTrfTxInf", counterpart: "Cdtr"},
	iso20022.Pain008: {initiation: "CstmrDrctDbtInitn", party: "Cdtr", transaction: "DrctDbtTxInf", counterpart: "Dbtr"},
}

// InjectAddresses adds PstlAdr blocks to a serialized document. On any
// failure the original document is returned together with the error, so the
// caller can always deliver the first value.
func InjectAddresses(document string, msgType iso20022.MessageType, plan AddressPlan) (string, error) {
	l, ok := layouts[msgType]
	if !ok {
		return document, fmt.Errorf("unsupported message type %q", msgType)
	}
	if !plan.HasAddresses() {
		return document, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(document); err != nil {
		return document, fmt.Errorf("failed to parse document: %w", err)
	}
	ns := msgType.Namespace()

	root := doc.Root()
	if root == nil || root.Tag != "Document" {
		return document, fmt.Errorf("missing Document root")
	}
	initiation := findChild(root, ns, l.initiation)
	if initiation == nil {
		return document, fmt.Errorf("missing %s element", l.initiation)
	}

	txIndex := 0
	for _, pmtInf := range findChildren(initiation, ns, "PmtInf") {
		if party := findChild(pmtInf, ns, l.party); party != nil {
			insertAddress(party, plan.Party)
		}
		for _, tx := range findChildren(pmtInf, ns, l.transaction) {
			if txIndex < len(plan.Transactions) {
				if counterpart := findChild(tx, ns, l.counterpart); counterpart != nil {
					insertAddress(counterpart, plan.Transactions[txIndex])
				}
			}
			txIndex++
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return document, fmt.Errorf("failed to write document: %w", err)
	}
	return out, nil
}

// insertAddress places a PstlAdr right after the party's Nm, or at the end
// when the party has no name. Blank addresses add nothing.
func insertAddress(party *etree.Element, addr *Address) {
	if addr.IsEmpty() {
		return
	}
	pstlAdr := etree.NewElement(iso20022.ElementPostalAddress)
	addChild(pstlAdr, iso20022.ElementStreetName, addr.Street)
	addChild(pstlAdr, iso20022.ElementPostCode, addr.PostalCode)
	addChild(pstlAdr, iso20022.ElementTownName, addr.City)
	addChild(pstlAdr, iso20022.ElementCountry, strings.ToUpper(addr.Country))

	if nm := findChild(party, party.NamespaceURI(), iso20022.ElementName); nm != nil {
		party.InsertChildAt(nm.Index()+1, pstlAdr)
		return
	}
	party.AddChild(pstlAdr)
}

func addChild(parent *etree.Element, tag, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

// findChild prefers a namespace match and falls back to the bare tag.
func findChild(parent *etree.Element, ns, tag string) *etree.Element {
	children := findChildren(parent, ns, tag)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func findChildren(parent *etree.Element, ns, tag string) []*etree.Element {
	var exact, loose []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag != tag {
			continue
		}
		if child.NamespaceURI() == ns {
			exact = append(exact, child)
		} else {
			loose = append(loose, child)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return loose
}
