package ai

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValuePreservesKeyOrder(t *testing.T) {
	doc, err := ParseValue([]byte(`{"zeta":1,"alpha":2,"mid":{"b":true,"a":null}}`))
	require.NoError(t, err)

	assert.Equal(t, KindMap, doc.Kind)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Keys)

	mid, ok := doc.Get("mid")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, mid.Keys)
}

func TestParseValueNumbersAreExact(t *testing.T) {
	doc, err := ParseValue([]byte(`{"price":415.50,"count":14}`))
	require.NoError(t, err)

	price, ok := doc.Get("price")
	require.True(t, ok)
	assert.Equal(t, KindNumber, price.Kind)
	assert.True(t, decimal.RequireFromString("415.50").Equal(price.Num))
	assert.Equal(t, "415.5", price.Text())
}

func TestParseValueVariants(t *testing.T) {
	doc, err := ParseValue([]byte(`{"s":"hi","b":false,"n":null,"l":[1,"two"]}`))
	require.NoError(t, err)

	s, _ := doc.Get("s")
	assert.True(t, s.IsPrimitive())
	assert.Equal(t, "hi", s.Text())

	b, _ := doc.Get("b")
	assert.Equal(t, KindBool, b.Kind)
	assert.Equal(t, "false", b.Text())

	n, _ := doc.Get("n")
	assert.Equal(t, KindNull, n.Kind)

	l, _ := doc.Get("l")
	require.Equal(t, KindList, l.Kind)
	require.Len(t, l.List, 2)
	assert.Equal(t, KindNumber, l.List[0].Kind)
	assert.Equal(t, KindString, l.List[1].Kind)
}

func TestParseValueRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":}`, `{"a":1} trailing`} {
		_, err := ParseValue([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}
