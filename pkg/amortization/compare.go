package amortization

// Comparison holds two forward calculations and the differences between them.
// Deltas are alternative minus base, so a positive delta means the
// alternative costs more.
type Comparison struct {
	Base              Result  `json:"base"`
	Alternative       Result  `json:"alternative"`
	PaymentDelta      float64 `json:"paymentDelta"`
	TotalPaymentDelta float64 `json:"totalPaymentDelta"`
	InterestDelta     float64 `json:"interestDelta"`
}

// Rounded returns a copy with every figure rounded to whole currency units.
// Deltas are recomputed from the rounded results so they add up on screen.
func (c Comparison) Rounded() Comparison {
	base, alt := c.Base.Rounded(), c.Alternative.Rounded()
	return Comparison{
		Base:              base,
		Alternative:       alt,
		PaymentDelta:      alt.PeriodicPayment - base.PeriodicPayment,
		TotalPaymentDelta: alt.TotalPayment - base.TotalPayment,
		InterestDelta:     alt.TotalInterest - base.TotalInterest,
	}
}

// Compare runs Calculate for both terms and reports the deltas.
func Compare(base, alternative LoanTerms) Comparison {
	b := Calculate(base)
	a := Calculate(alternative)
	return Comparison{
		Base:              b,
		Alternative:       a,
		PaymentDelta:      a.PeriodicPayment - b.PeriodicPayment,
		TotalPaymentDelta: a.TotalPayment - b.TotalPayment,
		InterestDelta:     a.TotalInterest - b.TotalInterest,
	}
}

// CompareRates compares the same principal and term at two annual rates.
func CompareRates(principal float64, termMonths int, baseRate, alternativeRate float64) Comparison {
	return Compare(
		LoanTerms{Principal: principal, AnnualRatePercent: baseRate, TermMonths: termMonths},
		LoanTerms{Principal: principal, AnnualRatePercent: alternativeRate, TermMonths: termMonths},
	)
}
