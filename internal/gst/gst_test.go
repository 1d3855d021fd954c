package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestResolve_Intrastate(t *testing.T) {
	defaults := ProductRates{CGST: pct("9"), SGST: pct("9"), IGST: pct("18")}

	rates := Resolve("Karnataka", "Karnataka", defaults)

	assert.True(t, rates.Intrastate())
	assert.True(t, rates.CGST.Equal(pct("9")))
	assert.True(t, rates.SGST.Equal(pct("9")))
	assert.True(t, rates.IGST.IsZero())
}

func TestResolve_Interstate(t *testing.T) {
	defaults := ProductRates{CGST: pct("9"), SGST: pct("9"), IGST: pct("18")}

	rates := Resolve("Karnataka", "Maharashtra", defaults)

	assert.False(t, rates.Intrastate())
	assert.True(t, rates.CGST.IsZero())
	assert.True(t, rates.SGST.IsZero())
	assert.True(t, rates.IGST.Equal(pct("18")))
}

func TestResolve_CaseSensitive(t *testing.T) {
	defaults := ProductRates{CGST: pct("9"), SGST: pct("9"), IGST: pct("18")}

	// No normalization: a case mismatch is a different jurisdiction.
	rates := Resolve("Karnataka", "karnataka", defaults)
	assert.True(t, rates.IGST.Equal(pct("18")))
}

func TestComputeLine_IntrastateScenario(t *testing.T) {
	// Seller and buyer both in Karnataka, price 100.00, 9% + 9%, qty 2.
	rates := Resolve("Karnataka", "Karnataka", ProductRates{CGST: pct("9"), SGST: pct("9"), IGST: pct("18")})

	line, err := ComputeLine(decimal.RequireFromString("100.00"), 2, rates)
	require.NoError(t, err)

	assert.Equal(t, "200", line.Base.String())
	assert.Equal(t, "18", line.CGSTAmount.String())
	assert.Equal(t, "18", line.SGSTAmount.String())
	assert.True(t, line.IGSTAmount.IsZero())
	assert.Equal(t, "236", line.LineTotal.String())
}

func TestComputeLine_InterstateScenario(t *testing.T) {
	rates := Resolve("Karnataka", "Maharashtra", ProductRates{CGST: pct("9"), SGST: pct("9"), IGST: pct("18")})

	line, err := ComputeLine(decimal.RequireFromString("100.00"), 2, rates)
	require.NoError(t, err)

	assert.Equal(t, "200", line.Base.String())
	assert.True(t, line.CGSTAmount.IsZero())
	assert.True(t, line.SGSTAmount.IsZero())
	assert.Equal(t, "36", line.IGSTAmount.String())
	assert.Equal(t, "236", line.LineTotal.String())
}

func TestComputeLine_RejectsZeroAndNegativeQuantity(t *testing.T) {
	rates := RateSet{IGST: pct("18")}

	_, err := ComputeLine(decimal.RequireFromString("100.00"), 0, rates)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeLine(decimal.RequireFromString("100.00"), -3, rates)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestComputeLine_RejectsNegativeInputs(t *testing.T) {
	_, err := ComputeLine(decimal.RequireFromString("-1.00"), 1, RateSet{})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = ComputeLine(decimal.RequireFromString("1.00"), 1, RateSet{CGST: pct("-9")})
	assert.ErrorIs(t, err, ErrNegativeRate)
}

func TestComputeLine_RoundsToPaise(t *testing.T) {
	// 33.33 * 3 = 99.99; 9% of 99.99 = 8.9991 -> 9.00
	rates := RateSet{CGST: pct("9"), SGST: pct("9")}
	line, err := ComputeLine(decimal.RequireFromString("33.33"), 3, rates)
	require.NoError(t, err)

	assert.Equal(t, "99.99", line.Base.String())
	assert.Equal(t, "9", line.CGSTAmount.String())
	assert.Equal(t, "9", line.SGSTAmount.String())
	assert.Equal(t, "117.99", line.LineTotal.String())
}

func TestComputeLine_ExclusivityInvariant(t *testing.T) {
	defaults := ProductRates{CGST: pct("2.5"), SGST: pct("2.5"), IGST: pct("5")}
	prices := []string{"0.01", "1.99", "49.50", "999.99", "123456.78"}

	for _, seller := range []string{"Karnataka", "Tamil Nadu"} {
		rates := Resolve(seller, "Karnataka", defaults)
		for i, p := range prices {
			line, err := ComputeLine(decimal.RequireFromString(p), int64(i+1), rates)
			require.NoError(t, err)

			gstSplit := !line.CGSTAmount.IsZero() || !line.SGSTAmount.IsZero()
			if gstSplit {
				assert.True(t, line.IGSTAmount.IsZero(), "CGST/SGST and IGST must never coexist")
			} else {
				assert.True(t, line.CGSTAmount.IsZero())
				assert.True(t, line.SGSTAmount.IsZero())
			}
		}
	}
}

func TestAggregate_TwoLineScenario(t *testing.T) {
	// One intrastate line (200 base, 18+18 tax) and one interstate line
	// (300 base, 54 IGST) must sum to 500 / 18 / 18 / 54 / 590.
	intra, err := ComputeLine(decimal.RequireFromString("100.00"), 2, RateSet{CGST: pct("9"), SGST: pct("9")})
	require.NoError(t, err)
	inter, err := ComputeLine(decimal.RequireFromString("150.00"), 2, RateSet{IGST: pct("18")})
	require.NoError(t, err)

	totals := Aggregate([]LineComputation{intra, inter})

	assert.Equal(t, "500", totals.Subtotal.String())
	assert.Equal(t, "18", totals.TotalCGST.String())
	assert.Equal(t, "18", totals.TotalSGST.String())
	assert.Equal(t, "54", totals.TotalIGST.String())
	assert.Equal(t, "590", totals.GrandTotal.String())
}

func TestAggregate_GrandTotalIsDerived(t *testing.T) {
	lines := []LineComputation{}
	for q := int64(1); q <= 7; q++ {
		line, err := ComputeLine(decimal.RequireFromString("19.99"), q, RateSet{CGST: pct("6"), SGST: pct("6")})
		require.NoError(t, err)
		lines = append(lines, line)
	}

	totals := Aggregate(lines)

	expected := totals.Subtotal.Add(totals.TotalCGST).Add(totals.TotalSGST).Add(totals.TotalIGST)
	assert.True(t, totals.GrandTotal.Equal(expected))
	assert.True(t, totals.Reconciles(lines))
}

func TestTotals_ReconcilesDetectsDrift(t *testing.T) {
	line, err := ComputeLine(decimal.RequireFromString("10.00"), 1, RateSet{IGST: pct("18")})
	require.NoError(t, err)

	totals := Aggregate([]LineComputation{line})
	totals.Subtotal = totals.Subtotal.Add(decimal.RequireFromString("0.01"))

	assert.False(t, totals.Reconciles([]LineComputation{line}))
}
