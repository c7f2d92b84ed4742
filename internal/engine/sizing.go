package engine

import (
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// AdjustedMonthlyKwh applies household load changes to the baseline usage.
// Pool and EV loads are added first, then the additions multiplier is applied.
func AdjustedMonthlyKwh(params models.SolarInputParams) float64 {
	kwh := params.MonthlyKwh
	if params.HasPool {
		kwh += PoolMonthlyKwh
	}
	if params.HasEV {
		kwh += EVMonthlyKwh
	}
	if params.PlanningAdditions {
		kwh *= AdditionsMultiplier
	}
	return kwh
}

// SizeSystem computes the PV system needed to cover the adjusted annual load.
// The panel count is always rounded up, so SystemSizeKw is never below
// RequestedSystemSizeKw.
func (e *Engine) SizeSystem(params models.SolarInputParams, irradiance models.SolarIrradianceData) models.SystemSpec {
	panelType := models.ParsePanelType(string(params.PanelType))
	inverterType := models.ParseInverterType(string(params.InverterType))
	batteryOption := models.ParseBatteryOption(string(params.BatteryOption))
	shading := models.ParseShadingLevel(string(params.ShadingLevel))

	panel := e.catalog.Panel(panelType)
	inverter := e.catalog.Inverter(inverterType)
	battery := e.catalog.Battery(batteryOption)
	shadingFactor := e.catalog.ShadingFactor(shading)

	adjusted := AdjustedMonthlyKwh(params)
	annualKwh := adjusted * 12

	efficiency := BaseDerate * inverter.Efficiency * shadingFactor
	requested := safeDiv(annualKwh, irradiance.Annual*DaysPerYear*efficiency)

	panels := 0
	if requested > 0 {
		panels = int(math.Ceil(requested * 1000 / panel.Wattage))
	}
	actual := float64(panels) * panel.Wattage / 1000

	coverage := 0.0
	if params.RoofArea != nil && *params.RoofArea > 0 {
		roofArea := *params.RoofArea
		coverage = math.Min(float64(panels)*PanelFootprintSqFt/roofArea*100, 100)
	}

	return models.SystemSpec{
		PanelType:             panelType,
		InverterType:          inverterType,
		BatteryOption:         batteryOption,
		AdjustedMonthlyKwh:    adjusted,
		AnnualKwh:             annualKwh,
		RequestedSystemSizeKw: requested,
		SystemSizeKw:          actual,
		PanelWattage:          panel.Wattage,
		BatteryCapacity:       battery.CapacityKwh,
		BatteryCost:           battery.Cost,
		ShadingFactor:         shadingFactor,
		SystemEfficiency:      efficiency,
		RoofCoverage:          coverage,
		PanelsNeeded:          panels,
	}
}
