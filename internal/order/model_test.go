package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestOrderedItem_VariantText(t *testing.T) {
	t.Run("FullVariant", func(t *testing.T) {
		it := OrderedItem{
			WidthIn:      decPtr("36"),
			HeightIn:     decPtr("84"),
			FrontWrap:    strPtr("Teak Veneer"),
			BackWrap:     strPtr("Laminate"),
			FrontCarving: strPtr("Floral"),
			BackCarving:  strPtr("Plain"),
		}
		assert.Equal(t,
			"36x84 in | Front Wrap: Teak Veneer | Back Wrap: Laminate | Front Carving: Floral | Back Carving: Plain",
			it.VariantText())
	})

	t.Run("DimensionsRequireBothSides", func(t *testing.T) {
		it := OrderedItem{WidthIn: decPtr("36"), FrontWrap: strPtr("Teak Veneer")}
		assert.Equal(t, "Front Wrap: Teak Veneer", it.VariantText())
	})

	t.Run("ZeroDimensionsOmitted", func(t *testing.T) {
		it := OrderedItem{WidthIn: decPtr("0"), HeightIn: decPtr("84")}
		assert.Empty(t, it.VariantText())
	})

	t.Run("NoVariant", func(t *testing.T) {
		assert.Empty(t, OrderedItem{ItemName: "Plain Door"}.VariantText())
	})
}

func TestOrderedItem_LineTotal(t *testing.T) {
	it := OrderedItem{ItemAmount: decimal.RequireFromString("900.50"), Quantity: 3}
	assert.Equal(t, "2701.50", it.LineTotal().StringFixed(2))

	// Zero quantity is treated as one, matching rows written before the
	// quantity column existed.
	it.Quantity = 0
	assert.Equal(t, "900.50", it.LineTotal().StringFixed(2))
}
