package models

import "time"

// Coordinate bounds.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// DefaultCoordinates is the geographic center of the contiguous United States.
// It is substituted whenever a request carries missing or unusable coordinates.
var DefaultCoordinates = Coordinates{Lat: 39.83, Lon: -98.58}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are inside their geographic ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= MinLatitude && c.Lat <= MaxLatitude &&
		c.Lon >= MinLongitude && c.Lon <= MaxLongitude
}

// UtilityRates carries optional tariff details supplied by the caller.
type UtilityRates struct {
	Provider           string  `json:"provider,omitempty"`
	ExportRate         float64 `json:"exportRate,omitempty"`
	FixedMonthlyCharge float64 `json:"fixedMonthlyCharge,omitempty"`
}

// SolarInputParams is the entry point of a calculation.
// Missing or unrecognized values are defaulted, never rejected.
type SolarInputParams struct {
	UtilityRates      *UtilityRates `json:"utilityRates,omitempty"`
	Coordinates       *Coordinates  `json:"coordinates,omitempty"`
	RoofArea          *float64      `json:"roofArea,omitempty"`
	RoofTilt          *float64      `json:"roofTilt,omitempty"`
	RoofAzimuth       *float64      `json:"roofAzimuth,omitempty"`
	Address           string        `json:"address"`
	RoofAge           string        `json:"roofAge,omitempty"`
	RoofType          RoofType      `json:"roofType,omitempty"`
	ShadingLevel      ShadingLevel  `json:"shadingLevel,omitempty"`
	PanelType         PanelType     `json:"panelType,omitempty"`
	InverterType      InverterType  `json:"inverterType,omitempty"`
	BatteryOption     BatteryOption `json:"batteryOption,omitempty"`
	MonthlyKwh        float64       `json:"monthlyKwh"`
	ElectricityRate   float64       `json:"electricityRate"`
	HasPool           bool          `json:"hasPool"`
	HasEV             bool          `json:"hasEv"`
	PlanningAdditions bool          `json:"planningAdditions"`
}

// Location returns the request coordinates, or DefaultCoordinates when they
// are absent or out of range.
func (p SolarInputParams) Location() Coordinates {
	if p.Coordinates == nil || !p.Coordinates.Valid() {
		return DefaultCoordinates
	}
	return *p.Coordinates
}

// SolarIrradianceData describes the solar resource at a location.
// Annual is in peak sun hours per day. Monthly, when present, holds twelve
// daily peak-sun-hour values from January to December.
type SolarIrradianceData struct {
	Source         string    `json:"source"`
	Monthly        []float64 `json:"monthly,omitempty"`
	Annual         float64   `json:"annual"`
	CapacityFactor float64   `json:"capacityFactor"`
}

// HasMonthly reports whether a full year of monthly values is available.
func (d SolarIrradianceData) HasMonthly() bool {
	return len(d.Monthly) == 12
}

// SystemSpec is the sized PV system.
type SystemSpec struct {
	PanelType             PanelType     `json:"panelType"`
	InverterType          InverterType  `json:"inverterType"`
	BatteryOption         BatteryOption `json:"batteryOption"`
	AdjustedMonthlyKwh    float64       `json:"adjustedMonthlyKwh"`
	AnnualKwh             float64       `json:"annualKwh"`
	RequestedSystemSizeKw float64       `json:"requestedSystemSizeKw"`
	SystemSizeKw          float64       `json:"systemSizeKw"`
	PanelWattage          float64       `json:"panelWattage"`
	BatteryCapacity       float64       `json:"batteryCapacity"`
	BatteryCost           float64       `json:"batteryCost"`
	ShadingFactor         float64       `json:"shadingFactor"`
	SystemEfficiency      float64       `json:"systemEfficiency"`
	RoofCoverage          float64       `json:"roofCoverage"`
	PanelsNeeded          int           `json:"panelsNeeded"`
}

// SeasonalProduction holds mean monthly production per season in kWh.
type SeasonalProduction struct {
	Spring float64 `json:"spring"`
	Summer float64 `json:"summer"`
	Fall   float64 `json:"fall"`
	Winter float64 `json:"winter"`
}

// ProductionResult is the modeled energy output of a system.
type ProductionResult struct {
	MonthlyProduction  []float64          `json:"monthlyProduction"`
	SeasonalProduction SeasonalProduction `json:"seasonalProduction"`
	AnnualProduction   float64            `json:"annualProduction"`
	CapacityFactor     float64            `json:"capacityFactor"`
}

// FinancialResult is the cost and savings breakdown.
type FinancialResult struct {
	StateCode             string  `json:"stateCode,omitempty"`
	SystemCost            float64 `json:"systemCost"`
	BatteryCost           float64 `json:"batteryCost"`
	TotalCost             float64 `json:"totalCost"`
	FederalTaxCredit      float64 `json:"federalTaxCredit"`
	StateIncentives       float64 `json:"stateIncentives"`
	LocalRebates          float64 `json:"localRebates"`
	NetCost               float64 `json:"netCost"`
	AnnualSavings         float64 `json:"annualSavings"`
	MonthlySavings        float64 `json:"monthlySavings"`
	ROIYears              float64 `json:"roiYears"`
	TwentyFiveYearSavings float64 `json:"twentyFiveYearSavings"`
}

// EnvironmentalImpact expresses annual production as avoided emissions.
type EnvironmentalImpact struct {
	CO2OffsetTons         float64 `json:"co2OffsetTons"`
	TreesEquivalent       float64 `json:"treesEquivalent"`
	CarsOffRoadEquivalent float64 `json:"carsOffRoadEquivalent"`
	CoalAvoidedPounds     float64 `json:"coalAvoidedPounds"`
}

// AdvancedMetrics are the 25-year investment metrics.
// InternalRateOfReturn is a simple yield (annual savings over net cost),
// not a root-solved IRR.
type AdvancedMetrics struct {
	LevelizedCostOfEnergy float64 `json:"levelizedCostOfEnergy"` // cents per kWh
	NetPresentValue       float64 `json:"netPresentValue"`
	InternalRateOfReturn  float64 `json:"internalRateOfReturn"`
	PaybackPeriod         float64 `json:"paybackPeriod"`
}

// FinancingType is the payment structure of a financing option.
type FinancingType string

// Financing structures.
const (
	FinancingCash  FinancingType = "cash"
	FinancingLoan  FinancingType = "loan"
	FinancingLease FinancingType = "lease"
	FinancingPPA   FinancingType = "ppa"
)

// FinancingOption is one way of paying for the system.
type FinancingOption struct {
	Type           FinancingType `json:"type"`
	Description    string        `json:"description"`
	MonthlyPayment float64       `json:"monthlyPayment"`
	TotalCost      float64       `json:"totalCost"`
	Savings        float64       `json:"savings"`
}

// NetMeteringResult splits annual production into self-consumed and exported energy.
type NetMeteringResult struct {
	SelfConsumedKwh  float64 `json:"selfConsumedKwh"`
	ExportedKwh      float64 `json:"exportedKwh"`
	GridImportKwh    float64 `json:"gridImportKwh"`
	ExportRate       float64 `json:"exportRate"`
	ExportCredit     float64 `json:"exportCredit"`
	SelfConsumedSave float64 `json:"selfConsumedSavings"`
}

// CalculationResult merges every stage output of a calculation.
// CalculationID is set when the calculation was queued for saving.
type CalculationResult struct {
	CalculatedAt    time.Time           `json:"calculatedAt"`
	CalculationID   string              `json:"calculationId,omitempty"`
	UtilityProvider string              `json:"utilityProvider"`
	Financing       []FinancingOption   `json:"financingOptions"`
	Irradiance      SolarIrradianceData `json:"irradiance"`
	Production      ProductionResult    `json:"production"`
	Financial       FinancialResult     `json:"financial"`
	System          SystemSpec          `json:"system"`
	NetMetering     NetMeteringResult   `json:"netMetering"`
	Environmental   EnvironmentalImpact `json:"environmental"`
	Metrics         AdvancedMetrics     `json:"advancedMetrics"`
}
