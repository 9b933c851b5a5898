package sepa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepakit/pkg/iso20022"
)

const plainCreditTransfer = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">
  <CstmrCdtTrfInitn>
    <GrpHdr><MsgId>M1</MsgId></GrpHdr>
    <PmtInf>
      <Dbtr><Nm>Payer</Nm></Dbtr>
      <CdtTrfTxInf><Cdtr><Nm>First</Nm></Cdtr></CdtTrfTxInf>
      <CdtTrfTxInf><Cdtr><Nm>Second</Nm></Cdtr></CdtTrfTxInf>
    </PmtInf>
  </CstmrCdtTrfInitn>
</Document>`

func TestInjectAddresses_ByTransactionIndex(t *testing.T) {
	plan := AddressPlan{Transactions: []*Address{nil, {PostalCode: "1010"}}}
	out, err := InjectAddresses(plainCreditTransfer, iso20022.Pain001, plan)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<PstlAdr>"))
	assert.Regexp(t, `<Nm>Second</Nm>\s*<PstlAdr>\s*<PstCd>1010</PstCd>\s*</PstlAdr>`, out)
	assert.NotRegexp(t, `<Nm>First</Nm>\s*<PstlAdr>`, out)
}

func TestInjectAddresses_AppendsWithoutName(t *testing.T) {
	in := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"><CstmrDrctDbtInitn><PmtInf><Cdtr/></PmtInf></CstmrDrctDbtInitn></Document>`
	out, err := InjectAddresses(in, iso20022.Pain008, AddressPlan{Party: &Address{Country: "es"}})
	require.NoError(t, err)
	assert.Regexp(t, `<Cdtr>\s*<PstlAdr>\s*<Ctry>ES</Ctry>`, out)
}

func TestInjectAddresses_TagOnlyFallback(t *testing.T) {
	// Document without the expected namespace still gets the address.
	in := `<Document><CstmrCdtTrfInitn><PmtInf><Dbtr><Nm>Payer</Nm></Dbtr></PmtInf></CstmrCdtTrfInitn></Document>`
	out, err := InjectAddresses(in, iso20022.Pain001, AddressPlan{Party: &Address{City: "Rome"}})
	require.NoError(t, err)
	assert.Contains(t, out, "<TwnNm>Rome</TwnNm>")
}

func TestInjectAddresses_FailsOpen(t *testing.T) {
	plan := AddressPlan{Party: &Address{City: "Rome"}}

	malformed := `<Document><CstmrCdtTrfInitn><<<`
	out, err := InjectAddresses(malformed, iso20022.Pain001, plan)
	assert.Error(t, err)
	assert.Equal(t, malformed, out)

	wrongRoot := `<Other><CstmrCdtTrfInitn/></Other>`
	out, err = InjectAddresses(wrongRoot, iso20022.Pain001, plan)
	assert.Error(t, err)
	assert.Equal(t, wrongRoot, out)
}

func TestInjectAddresses_NothingToDo(t *testing.T) {
	out, err := InjectAddresses(plainCreditTransfer, iso20022.Pain001, AddressPlan{Party: &Address{}})
	require.NoError(t, err)
	assert.Equal(t, plainCreditTransfer, out)
}

func TestAddressPlan_HasAddresses(t *testing.T) {
	assert.False(t, AddressPlan{}.HasAddresses())
	assert.False(t, AddressPlan{Transactions: []*Address{nil, {}}}.HasAddresses())
	assert.True(t, AddressPlan{Transactions: []*Address{nil, {Street: "x"}}}.HasAddresses())
}
