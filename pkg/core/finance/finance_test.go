// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/momeni/car-market/pkg/core/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleEMI() {
	res, err := finance.EMI(finance.LoanInput{
		Price:      1_200_000,
		AnnualRate: 8.5,
		TermMonths: 60,
	})
	fmt.Println(err)
	fmt.Printf("%.2f %.2f %.2f\n",
		res.EMI, res.TotalPayment, res.TotalInterest,
	)
	// Output:
	// <nil>
	// 24619.84 1477190.26 277190.26
}

func TestEMIIsPositiveAndCoversPrincipal(t *testing.T) {
	for _, price := range []float64{1, 999.5, 250_000, 1_200_000, 9e7} {
		for _, rate := range []float64{0.01, 1, 8.5, 24, 99.9, 100} {
			for _, n := range []int{1, 2, 12, 60, 84, 600} {
				res, err := finance.EMI(finance.LoanInput{
					Price: price, AnnualRate: rate, TermMonths: n,
				})
				require.NoError(t, err)
				assert.Greater(t, res.EMI, 0.0, "p=%v r=%v n=%d",
					price, rate, n)
				assert.GreaterOrEqual(t, res.TotalPayment, price,
					"p=%v r=%v n=%d", price, rate, n)
				assert.GreaterOrEqual(t, res.TotalInterest, 0.0)
			}
		}
	}
}

func TestEMIStaysFiniteAtExtremeInputs(t *testing.T) {
	tiny, err := finance.EMI(finance.LoanInput{
		Price: 1_000_000, AnnualRate: 1e-20, TermMonths: 60,
	})
	require.NoError(t, err)
	assert.False(t, math.IsInf(tiny.EMI, 0))
	assert.InEpsilon(t, 1_000_000.0/60, tiny.EMI, 1e-12)
	assert.InEpsilon(t, 1_000_000.0, tiny.TotalPayment, 1e-12)

	huge, err := finance.EMI(finance.LoanInput{
		Price: 1e306, AnnualRate: 100, TermMonths: 600,
	})
	require.NoError(t, err)
	assert.False(t, math.IsInf(huge.TotalPayment, 0))
	assert.Greater(t, huge.EMI, 0.0)
	assert.GreaterOrEqual(t, huge.TotalPayment, 1e306)
}

func TestEMIWithZeroRateIsSimpleDivision(t *testing.T) {
	for _, tc := range []struct {
		price, down float64
		n           int
	}{
		{1_200_000, 0, 60},
		{100, 1, 7},
		{10, 0, 3},
		{123_456.78, 23_456.78, 600},
	} {
		res, err := finance.EMI(finance.LoanInput{
			Price: tc.price, DownPayment: tc.down, TermMonths: tc.n,
		})
		require.NoError(t, err)
		p := tc.price - tc.down
		assert.Equal(t, p/float64(tc.n), res.EMI)
		assert.Equal(t, p, res.Principal)
		assert.InDelta(t, 0, res.TotalInterest, 1e-6)
	}
}

func TestEMISubtractsDownPayment(t *testing.T) {
	a, err := finance.EMI(finance.LoanInput{
		Price: 1_500_000, DownPayment: 300_000,
		AnnualRate: 8.5, TermMonths: 60,
	})
	require.NoError(t, err)
	assert.InDelta(t, 24619.84, a.EMI, 0.01)
	assert.Equal(t, 1_200_000.0, a.Principal)
}

func TestEMIRejectsInvalidInputs(t *testing.T) {
	for _, tc := range []struct {
		name  string
		in    finance.LoanInput
		field string
	}{
		{"zero price", finance.LoanInput{
			Price: 0, AnnualRate: 5, TermMonths: 12,
		}, "price"},
		{"negative price", finance.LoanInput{
			Price: -1, AnnualRate: 5, TermMonths: 12,
		}, "price"},
		{"nan price", finance.LoanInput{
			Price: math.NaN(), AnnualRate: 5, TermMonths: 12,
		}, "price"},
		{"negative down payment", finance.LoanInput{
			Price: 10, DownPayment: -1, AnnualRate: 5, TermMonths: 12,
		}, "down_payment"},
		{"down payment covers price", finance.LoanInput{
			Price: 10, DownPayment: 10, AnnualRate: 5, TermMonths: 12,
		}, "down_payment"},
		{"negative rate", finance.LoanInput{
			Price: 10, AnnualRate: -0.1, TermMonths: 12,
		}, "annual_rate"},
		{"rate above 100", finance.LoanInput{
			Price: 10, AnnualRate: 100.1, TermMonths: 12,
		}, "annual_rate"},
		{"zero term", finance.LoanInput{
			Price: 10, AnnualRate: 5, TermMonths: 0,
		}, "term_months"},
		{"negative term", finance.LoanInput{
			Price: 10, AnnualRate: 5, TermMonths: -3,
		}, "term_months"},
		{"too long term", finance.LoanInput{
			Price: 10, AnnualRate: 5, TermMonths: finance.MaxTermMonths + 1,
		}, "term_months"},
		{"overflowing total", finance.LoanInput{
			Price: 1e308, AnnualRate: 100, TermMonths: 600,
		}, "price"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := finance.EMI(tc.in)
			assert.Nil(t, res)
			var ve *finance.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestScheduleAmortizesPrincipal(t *testing.T) {
	res, err := finance.EMI(finance.LoanInput{
		Price: 1_200_000, AnnualRate: 8.5, TermMonths: 60,
	})
	require.NoError(t, err)
	rows := res.Schedule()
	require.Len(t, rows, 60)
	var paid, interest float64
	for i, row := range rows {
		assert.Equal(t, i+1, row.Month)
		assert.InDelta(t, res.EMI, row.Principal+row.Interest, 1e-6)
		paid += row.Principal
		interest += row.Interest
	}
	assert.InDelta(t, res.Principal, paid, 0.01)
	assert.InDelta(t, res.TotalInterest, interest, 0.01)
	assert.Equal(t, 0.0, rows[59].Balance)
	assert.Less(t, rows[1].Interest, rows[0].Interest)
}

func TestTradeInExample(t *testing.T) {
	res, err := finance.TradeIn(finance.TradeInInput{
		OriginalPrice: 1_000_000,
		AgeYears:      3,
		Condition:     finance.ConditionGood,
		Odometer:      20_000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 637_000, res.Value, 0.01)
	assert.Equal(t, 0.65, res.AgeFactor)
	assert.Equal(t, 0.9, res.ConditionMultiplier)
	assert.InDelta(t, 1.0889, res.MileageFactor, 1e-4)
	assert.Equal(t, 36_000.0, res.ExpectedMileage)
	assert.InDelta(t, res.Value,
		1_000_000*res.AgeFactor*res.ConditionMultiplier*res.MileageFactor,
		1e-6,
	)
}

func TestTradeInClampsAgeAndMileage(t *testing.T) {
	res, err := finance.TradeIn(finance.TradeInInput{
		OriginalPrice: 500_000,
		AgeYears:      12,
		Condition:     finance.ConditionPoor,
		Odometer:      300_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.AgeFactor)
	assert.InDelta(t, 0.7, res.MileageFactor, 1e-9)
	assert.InDelta(t, 56_875, res.Value, 0.01)

	assert.Equal(t, 0.25, finance.AgeFactor(finance.MaxAgeYears))
	assert.Equal(t, 0.95, finance.AgeFactor(0))
	assert.Equal(t, 1.1, finance.MileageFactor(5, 0))
	assert.Equal(t, 0.7, finance.MileageFactor(0, 1e9))
}

func TestTradeInIsNonIncreasingInAge(t *testing.T) {
	conds := []finance.Condition{
		finance.ConditionExcellent, finance.ConditionGood,
		finance.ConditionFair, finance.ConditionPoor,
	}
	for _, c := range conds {
		for km := 0.0; km <= 400_000; km += 7_500 {
			prev := math.Inf(1)
			for age := 0; age <= finance.MaxAgeYears; age++ {
				res, err := finance.TradeIn(finance.TradeInInput{
					OriginalPrice: 2_000_000,
					AgeYears:      age,
					Condition:     c,
					Odometer:      km,
				})
				require.NoError(t, err)
				require.LessOrEqual(t, res.Value, prev,
					"c=%v km=%v age=%d", c, km, age)
				assert.GreaterOrEqual(t, res.MileageFactor, 0.7-1e-12)
				assert.LessOrEqual(t, res.MileageFactor, 1.1+1e-12)
				prev = res.Value
			}
		}
	}
}

func TestTradeInIsOrderedByCondition(t *testing.T) {
	prev := math.Inf(1)
	for _, c := range []finance.Condition{
		finance.ConditionExcellent, finance.ConditionGood,
		finance.ConditionFair, finance.ConditionPoor,
	} {
		res, err := finance.TradeIn(finance.TradeInInput{
			OriginalPrice: 800_000, AgeYears: 4, Condition: c,
			Odometer: 50_000,
		})
		require.NoError(t, err)
		assert.Less(t, res.Value, prev)
		prev = res.Value
	}
}

func TestTradeInRejectsInvalidInputs(t *testing.T) {
	valid := finance.TradeInInput{
		OriginalPrice: 10, AgeYears: 1,
		Condition: finance.ConditionFair, Odometer: 1,
	}
	for _, tc := range []struct {
		name   string
		mutate func(in *finance.TradeInInput)
		field  string
	}{
		{"zero price", func(in *finance.TradeInInput) {
			in.OriginalPrice = 0
		}, "original_price"},
		{"negative age", func(in *finance.TradeInInput) {
			in.AgeYears = -1
		}, "age_years"},
		{"too old", func(in *finance.TradeInInput) {
			in.AgeYears = finance.MaxAgeYears + 1
		}, "age_years"},
		{"missing condition", func(in *finance.TradeInInput) {
			in.Condition = finance.ConditionInvalid
		}, "condition"},
		{"negative odometer", func(in *finance.TradeInInput) {
			in.Odometer = -5
		}, "odometer"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := finance.TradeIn(in)
			var ve *finance.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCheckLoanBoundaries(t *testing.T) {
	const income = 120_000 // 10,000 per month
	for _, tc := range []struct {
		name    string
		payment float64
		credit  finance.CreditTier
		want    finance.Decision
	}{
		{"below 30%", 2_999.99, finance.CreditGood, finance.DecisionApproved},
		{"at 30%", 3_000, finance.CreditGood, finance.DecisionApproved},
		{"above 30%", 3_000.01, finance.CreditGood, finance.DecisionConditional},
		{"at 30% poor credit", 3_000, finance.CreditPoor, finance.DecisionConditional},
		{"low dti poor credit", 500, finance.CreditPoor, finance.DecisionConditional},
		{"at 30% fair credit", 3_000, finance.CreditFair, finance.DecisionApproved},
		{"below 45%", 4_499.99, finance.CreditExcellent, finance.DecisionConditional},
		{"at 45%", 4_500, finance.CreditExcellent, finance.DecisionConditional},
		{"above 45%", 4_500.01, finance.CreditExcellent, finance.DecisionNeedsReview},
		{"above 45% poor credit", 9_000, finance.CreditPoor, finance.DecisionNeedsReview},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := finance.CheckLoan(finance.LoanCheckInput{
				MonthlyPayment: tc.payment,
				AnnualIncome:   income,
				Credit:         tc.credit,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Decision, "dti=%v", res.DTI)
			assert.InDelta(t, tc.payment/10_000, res.DTI, 1e-12)
		})
	}
}

func TestCheckLoanBoundariesWithUnevenIncome(t *testing.T) {
	for _, tc := range []struct {
		payment, income float64
		want            finance.Decision
	}{
		{2_500, 100_000, finance.DecisionApproved},
		{3_750, 150_000, finance.DecisionApproved},
		{2_500.01, 100_000, finance.DecisionConditional},
		{3_750, 100_000, finance.DecisionConditional},
		{2_625, 70_000, finance.DecisionConditional},
		{2_625.01, 70_000, finance.DecisionNeedsReview},
	} {
		res, err := finance.CheckLoan(finance.LoanCheckInput{
			MonthlyPayment: tc.payment,
			AnnualIncome:   tc.income,
			Credit:         finance.CreditGood,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Decision,
			"payment=%v income=%v dti=%v", tc.payment, tc.income, res.DTI)
	}
}

func TestCheckLoanIsDeterministic(t *testing.T) {
	in := finance.LoanCheckInput{
		MonthlyPayment: 24_619.84, AnnualIncome: 900_000,
		Credit: finance.CreditGood,
	}
	a, err := finance.CheckLoan(in)
	require.NoError(t, err)
	b, err := finance.CheckLoan(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCheckLoanRejectsInvalidInputs(t *testing.T) {
	for _, tc := range []struct {
		in    finance.LoanCheckInput
		field string
	}{
		{finance.LoanCheckInput{0, 1, finance.CreditGood}, "monthly_payment"},
		{finance.LoanCheckInput{1, 0, finance.CreditGood}, "annual_income"},
		{finance.LoanCheckInput{1, -10, finance.CreditGood}, "annual_income"},
		{finance.LoanCheckInput{1, 10, finance.CreditInvalid}, "credit"},
	} {
		_, err := finance.CheckLoan(tc.in)
		var ve *finance.ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Equal(t, tc.field, ve.Field)
	}
}

func TestPriceBreakdown(t *testing.T) {
	b, err := finance.PriceBreakdown(finance.BreakdownInput{
		ExShowroom:       1_200_000,
		RegistrationRate: 8,
		InsuranceRate:    3.5,
		HandlingFee:      15_000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 96_000, b.Registration, 1e-6)
	assert.InDelta(t, 42_000, b.Insurance, 1e-6)
	assert.InDelta(t, 12_000, b.TCS, 1e-6)
	assert.InDelta(t, 1_365_000, b.OnRoad, 1e-6)

	b, err = finance.PriceBreakdown(finance.BreakdownInput{
		ExShowroom: finance.TCSThreshold,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.TCS)
	assert.Equal(t, float64(finance.TCSThreshold), b.OnRoad)

	_, err = finance.PriceBreakdown(finance.BreakdownInput{
		ExShowroom: 10, InsuranceRate: 101,
	})
	var ve *finance.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "insurance_rate", ve.Field)
}

func TestTierNames(t *testing.T) {
	for _, s := range []string{"excellent", "good", "fair", "poor"} {
		c, err := finance.ParseCondition(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
		ct, err := finance.ParseCreditTier(s)
		require.NoError(t, err)
		assert.Equal(t, s, ct.String())
	}
	_, err := finance.ParseCondition("mint")
	assert.ErrorIs(t, err, finance.ErrUnknownCondition)
	_, err = finance.ParseCreditTier("")
	assert.ErrorIs(t, err, finance.ErrUnknownCreditTier)

	var d finance.Decision
	require.NoError(t, d.UnmarshalText([]byte("needs_review")))
	assert.Equal(t, finance.DecisionNeedsReview, d)
	_, err = finance.DecisionInvalid.MarshalText()
	assert.Error(t, err)
}
