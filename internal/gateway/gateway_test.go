package gateway

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b := NewBuilder("https://pay.example.com/checkout")

	r := b.Build("ord-1", decimal.RequireFromString("1299.5"))

	assert.Equal(t, "https://pay.example.com/checkout", r.URL)
	assert.Equal(t, "ord-1", r.OrderID)
	assert.Equal(t, "1299.50", r.TransactionAmount)
}

func TestFormHTML(t *testing.T) {
	b := NewBuilder("https://pay.example.com/checkout")
	r := b.Build("ord-1", decimal.NewFromInt(100))

	html, err := r.FormHTML()
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, `action="https://pay.example.com/checkout"`)
	assert.Contains(t, s, `name="OrderID" value="ord-1"`)
	assert.Contains(t, s, `name="TransactionAmount" value="100.00"`)
	assert.Contains(t, s, "document.getElementById")
}
