package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", Price: decimal.NewFromInt(400), Quantity: 2},
		{ProductID: "p2", Price: decimal.NewFromFloat(199.99), Quantity: 1},
	}
	assert.Equal(t, "999.99", Subtotal(lines).String())
}

func TestSubtotalEmpty(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
}

func TestProductIDsDistinctFirstSeen(t *testing.T) {
	lines := []Line{
		{ProductID: "p2"},
		{ProductID: "p1"},
		{ProductID: "p2"},
		{ProductID: "p3"},
	}
	assert.Equal(t, []string{"p2", "p1", "p3"}, ProductIDs(lines))
}
