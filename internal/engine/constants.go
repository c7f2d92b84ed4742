// Package engine implements the solar economics pipeline: system sizing,
// production modeling, financial modeling, investment metrics, environmental
// impact and financing options. Every stage is a pure function of its inputs
// and the injected equipment catalog.
package engine

const (
	// PoolMonthlyKwh is the consumption added for a pool pump.
	PoolMonthlyKwh = 500.0

	// EVMonthlyKwh is the consumption added for an electric vehicle.
	EVMonthlyKwh = 400.0

	// AdditionsMultiplier scales consumption when the household plans additions.
	AdditionsMultiplier = 1.25

	// BaseDerate covers wiring, soiling and temperature losses ahead of the
	// inverter and shading factors.
	BaseDerate = 0.85

	// PanelFootprintSqFt is the roof area assumed per panel.
	PanelFootprintSqFt = 22.0

	// DaysPerYear is used to expand daily peak sun hours to annual energy.
	DaysPerYear = 365.0

	// DaysPerMonth is the mean month length used for monthly production.
	DaysPerMonth = 30.44

	// HoursPerYear is used for capacity factor.
	HoursPerYear = 8760.0

	// InstallCostPerKw is the nominal installation labor and balance of system
	// cost ($1.20/W).
	InstallCostPerKw = 1200.0

	// FederalTaxCreditRate is the residential clean energy credit.
	FederalTaxCreditRate = 0.30

	// LocalRebatePerKw is a flat local rebate applied everywhere.
	LocalRebatePerKw = 200.0

	// ProjectionYears is the horizon for savings projections and metrics.
	ProjectionYears = 25

	// ElectricityEscalation is the yearly utility price increase.
	ElectricityEscalation = 0.03

	// DegradationRate is the yearly panel output loss.
	DegradationRate = 0.005

	// DiscountRate is used for LCOE and NPV.
	DiscountRate = 0.06

	// AnnualMaintenanceCost is the first-year O&M cost.
	AnnualMaintenanceCost = 20.0

	// MaintenanceEscalation is the yearly O&M cost increase.
	MaintenanceEscalation = 0.02

	// CO2TonsPerKwh is the grid emission factor used for offsets.
	CO2TonsPerKwh = 0.0004

	// TreesPerTonCO2 is the number of seedlings grown for ten years that
	// sequester one ton of CO2.
	TreesPerTonCO2 = 16.0

	// CarPoundsCO2PerTon and CarPoundsCO2PerYear express tons of CO2 as cars
	// taken off the road.
	CarPoundsCO2PerTon  = 2300.0
	CarPoundsCO2PerYear = 12000.0

	// CoalPoundsPerKwh is the coal burned per kWh of coal-fired generation.
	CoalPoundsPerKwh = 0.9

	// LoanTermYears and LoanInterestRate describe the financing loan template.
	LoanTermYears    = 20
	LoanInterestRate = 0.06

	// LeasePaymentShare and PPAPaymentShare are the shares of utility savings
	// paid to the lessor or PPA provider.
	LeasePaymentShare = 0.80
	PPAPaymentShare   = 0.75

	// DefaultExportRatio values exported energy relative to the retail rate
	// when the caller does not supply an export rate.
	DefaultExportRatio = 0.75

	// LatitudeReference is the latitude at which the seasonal curve is unshifted.
	LatitudeReference = 35.0

	// LatitudeShiftPerDegree flattens or steepens the seasonal curve.
	LatitudeShiftPerDegree = 0.01
)

// seasonalCurve is the relative production of each month, January first, at
// LatitudeReference.
var seasonalCurve = [12]float64{0.60, 0.70, 0.85, 1.00, 1.15, 1.25, 1.30, 1.20, 1.05, 0.85, 0.65, 0.55}
