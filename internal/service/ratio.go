package service

import "github.com/shopspring/decimal"

// Ratio metrics across the aggregation endpoints never divide by zero:
// an empty window or a zero-cost denominator yields zero, not an error.

func safeDiv(num decimal.Decimal, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(2)
}

func safePct(num decimal.Decimal, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(oneHundred).Round(2)
}

func safeDivInt(num decimal.Decimal, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(int64(den))).Round(2)
}
