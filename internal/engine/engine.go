package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/stwalsh4118/helios/internal/models"
)

// ErrInvalidCatalog is wrapped by CalculationError when the injected catalog
// cannot supply its default entries.
var ErrInvalidCatalog = errors.New("invalid equipment catalog")

// CalculationError reports a precondition that cannot be defaulted.
// Ordinary numeric inputs, including zero and negative values, never
// produce one.
type CalculationError struct {
	Stage string
	Err   error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("solar calculation failed at %s: %v", e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// Engine runs the calculation pipeline against an injected catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog   Catalog
	states    StateExtractor
	utilities UtilityLookup
}

// Option configures an Engine.
type Option func(*Engine)

// WithStateExtractor replaces the regex state extractor.
func WithStateExtractor(s StateExtractor) Option {
	return func(e *Engine) {
		if s != nil {
			e.states = s
		}
	}
}

// WithUtilityLookup sets the utility provider directory.
func WithUtilityLookup(u UtilityLookup) Option {
	return func(e *Engine) {
		e.utilities = u
	}
}

// New creates an Engine for catalog.
func New(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		states:  RegexStateExtractor{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Calculate runs every stage and merges the outputs. CalculatedAt is left
// zero; callers stamp it.
func (e *Engine) Calculate(params models.SolarInputParams, irradiance models.SolarIrradianceData) (*models.CalculationResult, error) {
	if err := e.catalog.Validate(); err != nil {
		return nil, &CalculationError{Stage: "catalog", Err: fmt.Errorf("%w: %v", ErrInvalidCatalog, err)}
	}

	location := params.Location()

	system := e.SizeSystem(params, irradiance)
	production := e.ModelProduction(system, irradiance, location.Lat)
	financial := e.ModelFinancials(system, production, params)
	metrics := e.AdvancedMetrics(financial, production)

	result := &models.CalculationResult{
		Irradiance:    irradiance,
		System:        system,
		Production:    production,
		Financial:     financial,
		Metrics:       metrics,
		Environmental: EnvironmentalImpact(production.AnnualProduction),
		Financing:     FinancingOptions(financial),
		NetMetering: NetMetering(
			production.AnnualProduction,
			params.MonthlyKwh*12,
			params.ElectricityRate,
			exportRate(params),
		),
	}

	if e.utilities != nil {
		result.UtilityProvider = e.utilities.Lookup(params.Address)
	}
	if params.UtilityRates != nil && params.UtilityRates.Provider != "" {
		result.UtilityProvider = params.UtilityRates.Provider
	}

	return result, nil
}

// safeDiv returns a/b, or 0 when the quotient is not finite.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
