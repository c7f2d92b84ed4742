package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// NetMetering splits production into self-consumed and exported energy.
// Self-consumption is valued at the retail rate and exports at exportRate.
func NetMetering(annualProduction, annualConsumption, retailRate, exportRate float64) models.NetMeteringResult {
	self := math.Max(math.Min(annualProduction, annualConsumption), 0)
	exported := math.Max(annualProduction-annualConsumption, 0)
	imported := math.Max(annualConsumption-annualProduction, 0)

	return models.NetMeteringResult{
		SelfConsumedKwh:  self,
		ExportedKwh:      exported,
		GridImportKwh:    imported,
		ExportRate:       exportRate,
		ExportCredit:     round2(exported * exportRate),
		SelfConsumedSave: round2(self * retailRate),
	}
}

// exportRate returns the caller's export tariff, or a share of the retail rate.
func exportRate(params models.SolarInputParams) float64 {
	if params.UtilityRates != nil && params.UtilityRates.ExportRate > 0 {
		return params.UtilityRates.ExportRate
	}
	return params.ElectricityRate * DefaultExportRatio
}
