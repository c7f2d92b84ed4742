package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ModelProduction estimates annual, monthly and seasonal output for a sized system.
//
// Seasons use a fixed northern-hemisphere grouping (Mar-May spring, Jun-Aug
// summer, Sep-Nov fall, Dec-Feb winter) at every latitude.
func (e *Engine) ModelProduction(system models.SystemSpec, irradiance models.SolarIrradianceData, latitude float64) models.ProductionResult {
	annual := system.SystemSizeKw * irradiance.Annual * DaysPerYear * system.SystemEfficiency

	var monthly []float64
	if irradiance.HasMonthly() {
		monthly = make([]float64, 12)
		for i, psh := range irradiance.Monthly {
			monthly[i] = math.Round(system.SystemSizeKw * psh * DaysPerMonth * system.SystemEfficiency)
		}
	} else {
		monthly = distributeSeasonally(annual, latitude)
	}

	return models.ProductionResult{
		MonthlyProduction: monthly,
		SeasonalProduction: models.SeasonalProduction{
			Spring: math.Round(stat.Mean(monthly[2:5], nil)),
			Summer: math.Round(stat.Mean(monthly[5:8], nil)),
			Fall:   math.Round(stat.Mean(monthly[8:11], nil)),
			Winter: math.Round(stat.Mean([]float64{monthly[11], monthly[0], monthly[1]}, nil)),
		},
		AnnualProduction: annual,
		CapacityFactor:   round1(safeDiv(annual, system.SystemSizeKw*HoursPerYear) * 100),
	}
}

// SeasonalFactors returns the twelve monthly weights for a latitude. The base
// curve is shifted by (35 - |lat|) * 0.01, which flattens it toward the
// equator; negative weights are clamped to zero.
func SeasonalFactors(latitude float64) [12]float64 {
	shift := (LatitudeReference - math.Abs(latitude)) * LatitudeShiftPerDegree
	var factors [12]float64
	for i, base := range seasonalCurve {
		factors[i] = math.Max(base+shift, 0)
	}
	return factors
}

// distributeSeasonally spreads annual production over the months in
// proportion to the latitude-adjusted seasonal curve.
func distributeSeasonally(annual, latitude float64) []float64 {
	factors := SeasonalFactors(latitude)
	total := floats.Sum(factors[:])

	monthly := make([]float64, 12)
	for i, f := range factors {
		monthly[i] = math.Round(annual * safeDiv(f, total))
	}
	return monthly
}
