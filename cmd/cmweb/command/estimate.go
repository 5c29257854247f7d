// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/momeni/car-market/pkg/core/finance"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Run the financial estimator offline",
	Long: `Run the financial estimator offline, without connecting to
the database or loading the configuration file. The results are printed
as JSON, exactly as the REST API reports them. Defaults of the optional
flags match the default configuration settings.`,
}

var (
	emiIn       finance.LoanInput
	emiSchedule bool

	tradeInIn  finance.TradeInInput
	conditionS string

	loanIn  finance.LoanCheckInput
	creditS string

	breakdownIn finance.BreakdownInput
)

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Compute the equated monthly installment of a car loan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := finance.EMI(emiIn)
		if err != nil {
			return err
		}
		if !emiSchedule {
			return printJSON(cmd, res)
		}
		return printJSON(cmd, struct {
			*finance.EMIResult
			Schedule []finance.Installment `json:"schedule"`
		}{res, res.Schedule()})
	},
}

var tradeInCmd = &cobra.Command{
	Use:   "tradein",
	Short: "Estimate the trade-in value of a used car",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		tradeInIn.Condition, err = finance.ParseCondition(conditionS)
		if err != nil {
			return fmt.Errorf("parsing condition %q: %w", conditionS, err)
		}
		res, err := finance.TradeIn(tradeInIn)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Check the loan eligibility by the debt-to-income ratio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		loanIn.Credit, err = finance.ParseCreditTier(creditS)
		if err != nil {
			return fmt.Errorf("parsing credit tier %q: %w", creditS, err)
		}
		res, err := finance.CheckLoan(loanIn)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Break the on-road price of a car down",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := finance.PriceBreakdown(breakdownIn)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	cmd.Println(string(b))
	return nil
}

func init() {
	f := emiCmd.Flags()
	f.Float64Var(&emiIn.Price, "price", 0, "car price")
	f.Float64Var(&emiIn.DownPayment, "down", 0, "down payment")
	f.Float64Var(&emiIn.AnnualRate, "rate", 9.5, "annual interest rate in percent")
	f.IntVar(&emiIn.TermMonths, "term", 60, "loan term in months")
	f.BoolVar(&emiSchedule, "schedule", false, "print the amortization schedule too")
	_ = emiCmd.MarkFlagRequired("price")

	f = tradeInCmd.Flags()
	f.Float64Var(&tradeInIn.OriginalPrice, "original-price", 0, "original price of the car")
	f.IntVar(&tradeInIn.AgeYears, "age", 0, "age of the car in years")
	f.StringVar(&conditionS, "condition", "good", "excellent, good, fair, or poor")
	f.Float64Var(&tradeInIn.Odometer, "odometer", 0, "driven kilometers")
	_ = tradeInCmd.MarkFlagRequired("original-price")

	f = loanCmd.Flags()
	f.Float64Var(&loanIn.MonthlyPayment, "monthly-payment", 0, "monthly installment")
	f.Float64Var(&loanIn.AnnualIncome, "annual-income", 0, "annual income of the applicant")
	f.StringVar(&creditS, "credit", "good", "excellent, good, fair, or poor")
	_ = loanCmd.MarkFlagRequired("monthly-payment")
	_ = loanCmd.MarkFlagRequired("annual-income")

	f = breakdownCmd.Flags()
	f.Float64Var(&breakdownIn.ExShowroom, "ex-showroom", 0, "ex-showroom price")
	f.Float64Var(&breakdownIn.RegistrationRate, "registration-rate", 8, "registration charge in percent")
	f.Float64Var(&breakdownIn.InsuranceRate, "insurance-rate", 3.5, "insurance premium in percent")
	f.Float64Var(&breakdownIn.HandlingFee, "handling-fee", 0, "flat handling fee")
	_ = breakdownCmd.MarkFlagRequired("ex-showroom")

	estimateCmd.AddCommand(emiCmd, tradeInCmd, loanCmd, breakdownCmd)
	rootCmd.AddCommand(estimateCmd)
}
