// Package gst implements the GST rate resolution, line computation and
// invoice aggregation rules for Indian intrastate/interstate supplies.
package gst

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrNegativeRate     = errors.New("negative_rate")
	ErrNegativePrice    = errors.New("negative_unit_price")
	ErrEmptyComputation = errors.New("empty_computation")
)

var hundred = decimal.NewFromInt(100)

// ProductRates holds a product's default tax rates, expressed as percentages.
type ProductRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// RateSet is the rate family applicable to one line. Exactly one of
// CGST+SGST or IGST is non-zero, decided by the jurisdiction relationship.
type RateSet struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Intrastate reports whether the rate set is the same-state CGST+SGST split.
func (r RateSet) Intrastate() bool {
	return r.IGST.IsZero() && (!r.CGST.IsZero() || !r.SGST.IsZero())
}

// Resolve picks the applicable rate set for a supply. A same-state supply
// (exact, case-sensitive state match) splits into CGST+SGST; any other pair
// of states is interstate and carries IGST only. Empty states are the
// caller's validation problem, not this function's.
func Resolve(sellerState, buyerState string, defaults ProductRates) RateSet {
	if sellerState == buyerState {
		return RateSet{CGST: defaults.CGST, SGST: defaults.SGST}
	}
	return RateSet{IGST: defaults.IGST}
}

// LineComputation is the derived money breakdown of a single invoice line.
// All amounts are rounded to two decimal places (paise).
type LineComputation struct {
	Base       decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	IGSTAmount decimal.Decimal
	LineTotal  decimal.Decimal
}

// ComputeLine derives the taxable base and per-tax amounts for one line.
// Quantity must be strictly positive; zero is rejected rather than silently
// producing a zero-value line.
func ComputeLine(unitPrice decimal.Decimal, quantity int64, rates RateSet) (LineComputation, error) {
	if quantity <= 0 {
		return LineComputation{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return LineComputation{}, ErrNegativePrice
	}
	if rates.CGST.IsNegative() || rates.SGST.IsNegative() || rates.IGST.IsNegative() {
		return LineComputation{}, ErrNegativeRate
	}

	base := unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
	cgst := base.Mul(rates.CGST).Div(hundred).Round(2)
	sgst := base.Mul(rates.SGST).Div(hundred).Round(2)
	igst := base.Mul(rates.IGST).Div(hundred).Round(2)

	return LineComputation{
		Base:       base,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		IGSTAmount: igst,
		LineTotal:  base.Add(cgst).Add(sgst).Add(igst),
	}, nil
}

// Totals are the invoice-level persisted sums. GrandTotal is derived from the
// other four and never computed independently, so the header/line consistency
// invariant holds by construction.
type Totals struct {
	Subtotal   decimal.Decimal
	TotalCGST  decimal.Decimal
	TotalSGST  decimal.Decimal
	TotalIGST  decimal.Decimal
	GrandTotal decimal.Decimal
}

// Aggregate sums line computations into invoice totals. The caller guarantees
// at least one line; Aggregate itself is total over any non-empty slice.
func Aggregate(lines []LineComputation) Totals {
	var t Totals
	t.Subtotal = decimal.Zero
	t.TotalCGST = decimal.Zero
	t.TotalSGST = decimal.Zero
	t.TotalIGST = decimal.Zero
	for _, line := range lines {
		t.Subtotal = t.Subtotal.Add(line.Base)
		t.TotalCGST = t.TotalCGST.Add(line.CGSTAmount)
		t.TotalSGST = t.TotalSGST.Add(line.SGSTAmount)
		t.TotalIGST = t.TotalIGST.Add(line.IGSTAmount)
	}
	t.GrandTotal = t.Subtotal.Add(t.TotalCGST).Add(t.TotalSGST).Add(t.TotalIGST)
	return t
}

// Reconciles reports whether persisted totals match a fresh aggregation of
// the given lines. Used as a defensive check before commit.
func (t Totals) Reconciles(lines []LineComputation) bool {
	fresh := Aggregate(lines)
	return t.Subtotal.Equal(fresh.Subtotal) &&
		t.TotalCGST.Equal(fresh.TotalCGST) &&
		t.TotalSGST.Equal(fresh.TotalSGST) &&
		t.TotalIGST.Equal(fresh.TotalIGST) &&
		t.GrandTotal.Equal(fresh.GrandTotal)
}
