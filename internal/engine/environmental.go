package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// EnvironmentalImpact converts annual production into avoided emissions.
func EnvironmentalImpact(annualProduction float64) models.EnvironmentalImpact {
	co2 := annualProduction * CO2TonsPerKwh
	return models.EnvironmentalImpact{
		CO2OffsetTons:         co2,
		TreesEquivalent:       math.Round(co2 * TreesPerTonCO2),
		CarsOffRoadEquivalent: math.Round(co2 * CarPoundsCO2PerTon / CarPoundsCO2PerYear),
		CoalAvoidedPounds:     math.Round(annualProduction * CoalPoundsPerKwh),
	}
}
