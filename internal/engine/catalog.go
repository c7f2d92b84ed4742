package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/stwalsh4118/helios/internal/models"
	"gopkg.in/yaml.v3"
)

// PanelSpec describes a solar panel model.
type PanelSpec struct {
	Name          string  `yaml:"name" json:"name"`
	Wattage       float64 `yaml:"wattage" json:"wattage"`
	Efficiency    float64 `yaml:"efficiency" json:"efficiency"` // percent
	Cost          float64 `yaml:"cost" json:"cost"`             // per panel
	WarrantyYears int     `yaml:"warranty_years" json:"warrantyYears"`
}

// InverterSpec describes an inverter. CostPerPanel is charged once per panel
// regardless of topology.
type InverterSpec struct {
	Name         string  `yaml:"name" json:"name"`
	Kind         string  `yaml:"kind" json:"kind"`
	Efficiency   float64 `yaml:"efficiency" json:"efficiency"` // 0-1
	CostPerPanel float64 `yaml:"cost_per_panel" json:"costPerPanel"`
}

// BatterySpec describes an optional home battery.
type BatterySpec struct {
	Name        string  `yaml:"name" json:"name"`
	CapacityKwh float64 `yaml:"capacity_kwh" json:"capacityKwh"`
	Cost        float64 `yaml:"cost" json:"cost"`
}

// Catalog is the equipment and incentive configuration the engine runs
// against. Lookups never fail: unknown keys resolve to the default entry.
type Catalog struct {
	Panels          map[models.PanelType]PanelSpec       `json:"panels"`
	Inverters       map[models.InverterType]InverterSpec `json:"inverters"`
	Batteries       map[models.BatteryOption]BatterySpec `json:"batteries"`
	ShadingFactors  map[models.ShadingLevel]float64      `json:"shadingFactors"`
	StateIncentives map[string]float64                   `json:"stateIncentives"` // $/kW by state code
}

// DefaultCatalog returns a fresh copy of the built-in tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Panels: map[models.PanelType]PanelSpec{
			models.PanelSilfab440:    {Name: "Silfab Elite 440", Wattage: 440, Efficiency: 22.0, Cost: 280, WarrantyYears: 30},
			models.PanelRECAlpha430:  {Name: "REC Alpha Pure-R 430", Wattage: 430, Efficiency: 22.3, Cost: 300, WarrantyYears: 25},
			models.PanelQCells410:    {Name: "Q.CELLS Q.TRON 410", Wattage: 410, Efficiency: 21.4, Cost: 240, WarrantyYears: 25},
			models.PanelPanasonic410: {Name: "Panasonic EverVolt 410", Wattage: 410, Efficiency: 22.2, Cost: 290, WarrantyYears: 25},
		},
		Inverters: map[models.InverterType]InverterSpec{
			models.InverterEnphaseIQ8:      {Name: "Enphase IQ8+", Kind: "microinverter", Efficiency: 0.97, CostPerPanel: 200},
			models.InverterSolarEdgeHDWave: {Name: "SolarEdge HD-Wave", Kind: "optimizer", Efficiency: 0.99, CostPerPanel: 150},
			models.InverterSMASunnyBoy:     {Name: "SMA Sunny Boy", Kind: "string", Efficiency: 0.97, CostPerPanel: 90},
		},
		Batteries: map[models.BatteryOption]BatterySpec{
			models.BatteryNone:           {Name: "No battery"},
			models.BatteryTeslaPowerwall: {Name: "Tesla Powerwall 3", CapacityKwh: 13.5, Cost: 11500},
			models.BatteryEnphaseIQ5P:    {Name: "Enphase IQ Battery 5P", CapacityKwh: 5.0, Cost: 6500},
			models.BatteryFranklinAPower: {Name: "FranklinWH aPower 2", CapacityKwh: 15.0, Cost: 12000},
		},
		ShadingFactors: map[models.ShadingLevel]float64{
			models.ShadingNone:     1.0,
			models.ShadingLight:    0.95,
			models.ShadingModerate: 0.85,
			models.ShadingHeavy:    0.7,
		},
		StateIncentives: map[string]float64{
			"AZ": 100,
			"CA": 200,
			"CO": 150,
			"FL": 100,
			"IL": 250,
			"MA": 300,
			"MD": 200,
			"NJ": 250,
			"NY": 400,
			"TX": 150,
		},
	}
}

// catalogFile mirrors Catalog with plain string keys so that a typo in an
// override file is reported instead of silently replacing a default entry.
type catalogFile struct {
	Panels          map[string]PanelSpec    `yaml:"panels"`
	Inverters       map[string]InverterSpec `yaml:"inverters"`
	Batteries       map[string]BatterySpec  `yaml:"batteries"`
	ShadingFactors  map[string]float64      `yaml:"shading_factors"`
	StateIncentives map[string]float64      `yaml:"state_incentives"`
}

// LoadCatalog reads a YAML override file and merges it over DefaultCatalog.
// Entries in the file replace the built-in entries of the same key; keys that
// are not catalog variants are rejected.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog merges a YAML document over DefaultCatalog.
func ParseCatalog(data []byte) (Catalog, error) {
	catalog := DefaultCatalog()

	var override catalogFile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for k, v := range override.Panels {
		key := models.PanelType(k)
		if models.ParsePanelType(k) != key {
			return Catalog{}, fmt.Errorf("unknown panel type %q", k)
		}
		catalog.Panels[key] = v
	}
	for k, v := range override.Inverters {
		key := models.InverterType(k)
		if models.ParseInverterType(k) != key {
			return Catalog{}, fmt.Errorf("unknown inverter type %q", k)
		}
		catalog.Inverters[key] = v
	}
	for k, v := range override.Batteries {
		key := models.BatteryOption(k)
		if models.ParseBatteryOption(k) != key {
			return Catalog{}, fmt.Errorf("unknown battery option %q", k)
		}
		catalog.Batteries[key] = v
	}
	for k, v := range override.ShadingFactors {
		key := models.ShadingLevel(k)
		if models.ParseShadingLevel(k) != key {
			return Catalog{}, fmt.Errorf("unknown shading level %q", k)
		}
		catalog.ShadingFactors[key] = v
	}
	for k, v := range override.StateIncentives {
		catalog.StateIncentives[strings.ToUpper(k)] = v
	}

	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// Validate checks that every default entry is present and usable.
func (c Catalog) Validate() error {
	panel, ok := c.Panels[models.DefaultPanelType]
	if !ok {
		return fmt.Errorf("default panel %q is missing", models.DefaultPanelType)
	}
	if panel.Wattage <= 0 {
		return fmt.Errorf("default panel %q must have positive wattage", models.DefaultPanelType)
	}
	for key, p := range c.Panels {
		if p.Wattage <= 0 {
			return fmt.Errorf("panel %q must have positive wattage", key)
		}
	}
	if _, ok := c.Inverters[models.DefaultInverterType]; !ok {
		return fmt.Errorf("default inverter %q is missing", models.DefaultInverterType)
	}
	if _, ok := c.Batteries[models.DefaultBatteryOption]; !ok {
		return fmt.Errorf("default battery option %q is missing", models.DefaultBatteryOption)
	}
	return nil
}

// Panel returns the PanelSpec for t, or the default panel when t is not listed.
func (c Catalog) Panel(t models.PanelType) PanelSpec {
	if p, ok := c.Panels[t]; ok {
		return p
	}
	return c.Panels[models.DefaultPanelType]
}

// Inverter returns the InverterSpec for t, or the default inverter when t is not listed.
func (c Catalog) Inverter(t models.InverterType) InverterSpec {
	if i, ok := c.Inverters[t]; ok {
		return i
	}
	return c.Inverters[models.DefaultInverterType]
}

// Battery returns the BatterySpec for b, or the no-battery entry when b is not listed.
func (c Catalog) Battery(b models.BatteryOption) BatterySpec {
	if s, ok := c.Batteries[b]; ok {
		return s
	}
	return c.Batteries[models.DefaultBatteryOption]
}

// ShadingFactor returns the production multiplier for l; unlisted levels get 1.0.
func (c Catalog) ShadingFactor(l models.ShadingLevel) float64 {
	if f, ok := c.ShadingFactors[l]; ok {
		return f
	}
	return 1.0
}

// StateIncentive returns the $/kW incentive for a two-letter state code, or 0.
func (c Catalog) StateIncentive(state string) float64 {
	return c.StateIncentives[state]
}
