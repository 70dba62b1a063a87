package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-725.50
<FITID>2024011501
<NAME>POS PURCHASE BIG BAZAAR
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240101120000[0:GMT]
<TRNAMT>60000.00
<FITID>2024010101
<NAME>SALARY CREDIT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseFileBankStatement(t *testing.T) {
	parser := NewParser()
	transactions, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	debit := transactions[0]
	assert.Equal(t, model.TypeExpense, debit.Type)
	assert.Equal(t, "BIG BAZAAR", debit.Description)
	assert.True(t, decimal.RequireFromString("725.50").Equal(debit.Amount), "got %s", debit.Amount)
	assert.Equal(t, "2024-01-15", debit.Date)
	assert.NotEmpty(t, debit.ID)

	credit := transactions[1]
	assert.Equal(t, model.TypeIncome, credit.Type)
	assert.Equal(t, "SALARY CREDIT", credit.Description)
	assert.True(t, decimal.NewFromInt(60000).Equal(credit.Amount))
	assert.Equal(t, "Income", credit.Category)

	// Imported transactions get fresh ids, never the bank's FITID.
	assert.NotEqual(t, debit.ID, credit.ID)
}

func TestParseFileRejectsGarbage(t *testing.T) {
	parser := NewParser()
	_, err := parser.ParseFile(context.Background(), strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func TestPreprocessFixesUnclosedTags(t *testing.T) {
	parser := NewParser()
	fixed := parser.preprocessOFX("<OFX\n<SEVERITY>Info</SEVERITY>")
	assert.Contains(t, fixed, "<OFX>")
	assert.Contains(t, fixed, "<SEVERITY>INFO</SEVERITY>")
}
