package engine

import (
	"fmt"

	"github.com/stwalsh4118/helios/internal/models"
)

// FinancingOptions builds the cash, loan, lease and PPA templates. Savings
// are first-year utility savings over ProjectionYears minus what the option
// costs over the same horizon. Only the cash option is credited with the
// incentives, so its savings are measured against NetCost.
func FinancingOptions(financial models.FinancialResult) []models.FinancingOption {
	horizonSavings := financial.AnnualSavings * ProjectionYears
	months := float64(ProjectionYears * 12)

	// Flat-interest approximation: interest accrues on the full principal
	// for the whole term.
	loanTotal := financial.TotalCost * (1 + LoanInterestRate*LoanTermYears)
	loanMonthly := loanTotal / float64(LoanTermYears*12)

	leaseMonthly := financial.AnnualSavings * LeasePaymentShare / 12
	ppaMonthly := financial.AnnualSavings * PPAPaymentShare / 12

	return []models.FinancingOption{
		{
			Type:           models.FinancingCash,
			Description:    "Pay upfront and keep all incentives and savings",
			MonthlyPayment: 0,
			TotalCost:      round2(financial.TotalCost),
			Savings:        round2(horizonSavings - financial.NetCost),
		},
		{
			Type:           models.FinancingLoan,
			Description:    fmt.Sprintf("%d-year solar loan at %.0f%% APR", LoanTermYears, LoanInterestRate*100),
			MonthlyPayment: round2(loanMonthly),
			TotalCost:      round2(loanTotal),
			Savings:        round2(horizonSavings - loanTotal),
		},
		{
			Type:           models.FinancingLease,
			Description:    fmt.Sprintf("Lease the system for %.0f%% of your utility savings", LeasePaymentShare*100),
			MonthlyPayment: round2(leaseMonthly),
			TotalCost:      round2(leaseMonthly * months),
			Savings:        round2(horizonSavings - leaseMonthly*months),
		},
		{
			Type:           models.FinancingPPA,
			Description:    fmt.Sprintf("Buy the power for %.0f%% of your utility savings", PPAPaymentShare*100),
			MonthlyPayment: round2(ppaMonthly),
			TotalCost:      round2(ppaMonthly * months),
			Savings:        round2(horizonSavings - ppaMonthly*months),
		},
	}
}
