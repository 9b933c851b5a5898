package sepa

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sepakit/pkg/errors"
)

const latin1CreditTransfer = "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
	`<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">` +
	`<CstmrCdtTrfInitn><GrpHdr><MsgId>LAT-1</MsgId><CreDtTm>2025-01-15T10:30:00</CreDtTm>` +
	`<NbOfTxs>1</NbOfTxs><CtrlSum>10.00</CtrlSum><InitgPty><Nm>Caf` + "\xe9" + ` SA</Nm></InitgPty></GrpHdr>` +
	`<PmtInf><PmtInfId>P-1</PmtInfId><NbOfTxs>1</NbOfTxs><CtrlSum>10.00</CtrlSum>` +
	`<ReqdExctnDt>2025-01-20</ReqdExctnDt><Dbtr><Nm>Caf` + "\xe9" + ` SA</Nm></Dbtr>` +
	`<DbtrAcct><Id><IBAN>FR1420041010050500013M02606</IBAN></Id></DbtrAcct>` +
	`<CdtTrfTxInf><PmtId><EndToEndId>E-1</EndToEndId></PmtId>` +
	`<Amt><InstdAmt Ccy="EUR">10.00</InstdAmt></Amt><Cdtr><Nm>M` + "\xfc" + `ller</Nm></Cdtr>` +
	`<CdtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></CdtrAcct></CdtTrfTxInf>` +
	`</PmtInf></CstmrCdtTrfInitn></Document>`

func TestParseCreditTransfer_Latin1(t *testing.T) {
	msg, err := NewParser().ParseCreditTransfer(latin1CreditTransfer)
	require.NoError(t, err)

	assert.Equal(t, "LAT-1", msg.MessageID)
	assert.Equal(t, "Café SA", msg.InitiatingPartyName)
	assert.Equal(t, "P-1", msg.PaymentInfoID)
	assert.Equal(t, "2025-01-20", msg.RequestedDate)
	assert.Equal(t, "FR1420041010050500013M02606", msg.PartyIBAN)
	require.Len(t, msg.Transactions, 1)
	assert.Equal(t, "Müller", msg.Transactions[0].Name)
	assert.True(t, decimal.NewFromInt(10).Equal(msg.Transactions[0].Amount))
}

const twoBlockCreditTransfer = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><CstmrCdtTrfInitn>` +
	`<GrpHdr><MsgId>MULTI-1</MsgId><NbOfTxs>3</NbOfTxs><CtrlSum>60.00</CtrlSum></GrpHdr>` +
	`<PmtInf><PmtInfId>P-A</PmtInfId><NbOfTxs>1</NbOfTxs><CtrlSum>10.00</CtrlSum><ReqdExctnDt>2025-01-20</ReqdExctnDt>` +
	`<CdtTrfTxInf><PmtId><EndToEndId>A-1</EndToEndId></PmtId><Amt><InstdAmt Ccy="EUR">10.00</InstdAmt></Amt></CdtTrfTxInf>` +
	`</PmtInf>` +
	`<PmtInf><PmtInfId>P-B</PmtInfId><NbOfTxs>2</NbOfTxs><CtrlSum>50.00</CtrlSum><ReqdExctnDt>2025-01-21</ReqdExctnDt>` +
	`<CdtTrfTxInf><PmtId><EndToEndId>B-1</EndToEndId></PmtId><Amt><InstdAmt Ccy="EUR">20.00</InstdAmt></Amt></CdtTrfTxInf>` +
	`<CdtTrfTxInf><PmtId><EndToEndId>B-2</EndToEndId></PmtId><Amt><InstdAmt Ccy="EUR">30.00</InstdAmt></Amt></CdtTrfTxInf>` +
	`</PmtInf></CstmrCdtTrfInitn></Document>`

func TestParseCreditTransfer_EveryPaymentInfoBlock(t *testing.T) {
	msg, err := NewParser().ParseCreditTransfer(twoBlockCreditTransfer)
	require.NoError(t, err)

	assert.Equal(t, 2, msg.PaymentInfoCount)
	assert.Equal(t, "P-A", msg.PaymentInfoID)
	assert.Equal(t, "2025-01-20", msg.RequestedDate)
	assert.Equal(t, 3, msg.NumberOfTransactions)
	assert.Equal(t, "60.00", msg.ControlSum.StringFixed(2))
	require.Len(t, msg.Transactions, 3)
	assert.Equal(t, "A-1", msg.Transactions[0].EndToEndID)
	assert.Equal(t, "B-2", msg.Transactions[2].EndToEndID)
}

func TestParseCreditTransfer_Malformed(t *testing.T) {
	_, err := NewParser().ParseCreditTransfer("<Document><<<")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))

	_, err = NewParser().ParseCreditTransfer(`<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"/>`)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
}

func TestParseCreditTransfer_BadNumbers(t *testing.T) {
	doc := `<Document><CstmrCdtTrfInitn><GrpHdr><MsgId>M</MsgId></GrpHdr>` +
		`<PmtInf><NbOfTxs>two</NbOfTxs></PmtInf></CstmrCdtTrfInitn></Document>`
	_, err := NewParser().ParseCreditTransfer(doc)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
}

func TestIsValidCreditTransfer(t *testing.T) {
	p := NewParser()
	assert.True(t, p.IsValidCreditTransfer(plainCreditTransfer))
	assert.False(t, p.IsValidCreditTransfer(`<Document><CstmrCdtTrfInitn><GrpHdr/></CstmrCdtTrfInitn></Document>`))
	assert.False(t, p.IsValidCreditTransfer(`<Document><CstmrDrctDbtInitn><GrpHdr><MsgId>M</MsgId></GrpHdr></CstmrDrctDbtInitn></Document>`))
	assert.False(t, p.IsValidCreditTransfer("not xml <<<"))
	assert.False(t, p.IsValidCreditTransfer(""))
}

func TestParseDirectDebit(t *testing.T) {
	out, err := newTestBuilder().GenerateDirectDebit(sampleDirectDebit())
	require.NoError(t, err)

	p := NewParser()
	assert.True(t, p.IsValidDirectDebit(out))
	assert.False(t, p.IsValidCreditTransfer(out))

	msg, err := p.ParseDirectDebit(out)
	require.NoError(t, err)
	assert.Equal(t, "MSG-DD-1", msg.MessageID)
	assert.Equal(t, "Gym SL", msg.PartyName)
	assert.Equal(t, "2025-02-01", msg.RequestedDate)
	assert.Equal(t, 2, msg.NumberOfTransactions)
	assert.True(t, decimal.RequireFromString("69.90").Equal(msg.ControlSum))
	require.Len(t, msg.Transactions, 2)
	assert.Equal(t, "MANDATE-1", msg.Transactions[0].MandateID)
	assert.Equal(t, "2024-12-01", msg.Transactions[0].MandateSignDate)
	assert.Equal(t, "John Doe", msg.Transactions[0].Name)
	assert.Equal(t, "NL91ABNA0417164300", msg.Transactions[1].IBAN)
	assert.True(t, decimal.NewFromInt(20).Equal(msg.Transactions[1].Amount))
}
