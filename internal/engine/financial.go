package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// ModelFinancials prices the system and estimates utility savings.
//
// Savings are capped at the household's current consumption; exported energy
// is valued separately by NetMetering.
func (e *Engine) ModelFinancials(system models.SystemSpec, production models.ProductionResult, params models.SolarInputParams) models.FinancialResult {
	panel := e.catalog.Panel(system.PanelType)
	inverter := e.catalog.Inverter(system.InverterType)
	panels := float64(system.PanelsNeeded)

	systemCost := panels*panel.Cost + panels*inverter.CostPerPanel + system.SystemSizeKw*InstallCostPerKw
	totalCost := systemCost + system.BatteryCost

	state := e.states.ExtractState(params.Address)
	federal := totalCost * FederalTaxCreditRate
	stateIncentives := e.catalog.StateIncentive(state) * system.SystemSizeKw
	localRebates := LocalRebatePerKw * system.SystemSizeKw
	netCost := totalCost - federal - stateIncentives - localRebates

	annualConsumption := params.MonthlyKwh * 12
	annualSavings := math.Min(production.AnnualProduction, annualConsumption) * params.ElectricityRate

	return models.FinancialResult{
		StateCode:             state,
		SystemCost:            systemCost,
		BatteryCost:           system.BatteryCost,
		TotalCost:             totalCost,
		FederalTaxCredit:      federal,
		StateIncentives:       stateIncentives,
		LocalRebates:          localRebates,
		NetCost:               netCost,
		AnnualSavings:         annualSavings,
		MonthlySavings:        annualSavings / 12,
		ROIYears:              safeDiv(netCost, annualSavings),
		TwentyFiveYearSavings: EscalatedSavings(annualSavings, ProjectionYears),
	}
}

// EscalatedSavings sums first-year savings over years with the utility price
// rising ElectricityEscalation per year. The sum is not discounted.
func EscalatedSavings(annualSavings float64, years int) float64 {
	total := 0.0
	for y := 1; y <= years; y++ {
		total += annualSavings * math.Pow(1+ElectricityEscalation, float64(y-1))
	}
	return total
}
