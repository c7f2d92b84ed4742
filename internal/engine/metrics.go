package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// AdvancedMetrics projects the investment over ProjectionYears.
//
// LCOE discounts net cost plus escalating O&M against degrading production.
// NPV discounts escalating, degrading savings net of O&M. The rate of return
// is the first-year simple yield, and payback is undiscounted; both are
// approximations kept for compatibility with existing reports.
func (e *Engine) AdvancedMetrics(financial models.FinancialResult, production models.ProductionResult) models.AdvancedMetrics {
	var (
		discountedCost   = financial.NetCost
		discountedEnergy float64
		npv              = -financial.NetCost
	)

	for y := 1; y <= ProjectionYears; y++ {
		n := float64(y - 1)
		discount := math.Pow(1+DiscountRate, float64(y))
		degradation := math.Pow(1-DegradationRate, n)

		maintenance := AnnualMaintenanceCost * math.Pow(1+MaintenanceEscalation, n)
		energy := production.AnnualProduction * degradation
		savings := financial.AnnualSavings * math.Pow(1+ElectricityEscalation, n) * degradation

		discountedCost += maintenance / discount
		discountedEnergy += energy / discount
		npv += (savings - maintenance) / discount
	}

	return models.AdvancedMetrics{
		LevelizedCostOfEnergy: round2(safeDiv(discountedCost, discountedEnergy) * 100),
		NetPresentValue:       round2(npv),
		InternalRateOfReturn:  round1(safeDiv(financial.AnnualSavings, financial.NetCost) * 100),
		PaybackPeriod:         safeDiv(financial.NetCost, financial.AnnualSavings),
	}
}
