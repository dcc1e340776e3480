// Package pricing derives order totals from a tab's item list. The fold is
// pure and recomputed on every call; totals must never go stale behind a
// cache.
package pricing

import (
	"math"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// DefaultTaxRate matches the flat VAT applied by the billing backend.
const DefaultTaxRate = 0.10

// LineGross returns quantity times rate before discount.
func LineGross(item model.LineItem) float64 {
	return item.Quantity * item.Rate
}

// LineDiscount returns the absolute discount amount of one line.
func LineDiscount(item model.LineItem) float64 {
	return LineGross(item) * item.DiscountPercent / 100
}

// Calculate folds the item list into subtotal, discount, tax, rounding and
// grand total. The grand total is rounded to the nearest whole unit and the
// signed difference is reported as Rounding. Inputs are taken as-is; numeric
// validation happens at the edit boundary, not here.
func Calculate(items []model.LineItem, taxRate float64) model.Totals {
	var subtotal, totalDiscount float64
	for _, item := range items {
		subtotal += LineGross(item)
		totalDiscount += LineDiscount(item)
	}

	taxable := subtotal - totalDiscount
	tax := taxable * taxRate

	raw := taxable + tax
	final := math.Round(raw)

	return model.Totals{
		Subtotal:      subtotal,
		TotalDiscount: totalDiscount,
		TaxAmount:     tax,
		Rounding:      final - raw,
		FinalTotal:    final,
	}
}
