// Package scoring holds the eligibility policy used when an officer reviews a loan application.
//
// The policy is a pure function of the customer's credit score, income and the
// requested amount. It produces a score in [0,1] and a recommendation; the
// officer's review decision is recorded separately and always wins.
package scoring

import (
	"loanflow/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Normalization bounds
const (
	CreditScoreMin = 300.0
	CreditScoreMax = 850.0
	IncomeMin      = 0.0
	IncomeMax      = 2_000_000.0
)

// Weights of the composite score
const (
	CreditWeight = 0.6
	IncomeWeight = 0.4
)

// Threshold brackets. Only the largest matching bracket applies.
const (
	BaseThreshold  = 0.4
	LargeLoanBump  = 0.2
	MediumLoanBump = 0.1
	LargeLoanFrom  = 500_000.0
	MediumLoanFrom = 200_000.0
)

// ScorePrecision is the number of decimal places kept when a score is persisted
const ScorePrecision = 4

// Result is the outcome of an evaluation
type Result struct {
	Score          float64                  `json:"score"`
	Threshold      float64                  `json:"threshold"`
	Recommendation domain.ApplicationStatus `json:"recommendation"`
}

// Normalize maps value linearly from [min,max] onto [0,1], clamped.
// A degenerate range yields 0.
func Normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	n := (value - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Threshold returns the minimum score needed to approve the requested amount
func Threshold(amountRequested float64) float64 {
	threshold := decimal.NewFromFloat(BaseThreshold)
	switch {
	case amountRequested > LargeLoanFrom:
		threshold = threshold.Add(decimal.NewFromFloat(LargeLoanBump))
	case amountRequested > MediumLoanFrom:
		threshold = threshold.Add(decimal.NewFromFloat(MediumLoanBump))
	}
	// decimal keeps 0.4+0.2 at exactly 0.6 so a score of 0.6 still passes
	return threshold.InexactFloat64()
}

// Score computes the composite eligibility score, rounded to ScorePrecision places
func Score(creditScore, income float64) float64 {
	creditNorm := Normalize(creditScore, CreditScoreMin, CreditScoreMax)
	incomeNorm := Normalize(income, IncomeMin, IncomeMax)
	return Round(CreditWeight*creditNorm + IncomeWeight*incomeNorm)
}

// Round rounds a score half away from zero to ScorePrecision decimal places
func Round(score float64) float64 {
	return decimal.NewFromFloat(score).Round(ScorePrecision).InexactFloat64()
}

// Evaluate runs the full policy
func Evaluate(creditScore, income, amountRequested float64) Result {
	score := Score(creditScore, income)
	threshold := Threshold(amountRequested)

	recommendation := domain.StatusRejected
	if score >= threshold {
		recommendation = domain.StatusApproved
	}

	return Result{
		Score:          score,
		Threshold:      threshold,
		Recommendation: recommendation,
	}
}
