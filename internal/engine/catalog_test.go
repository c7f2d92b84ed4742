package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/helios/internal/models"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	catalog := DefaultCatalog()

	require.NoError(t, catalog.Validate())
	for _, p := range models.PanelTypes {
		assert.Contains(t, catalog.Panels, p)
	}
	for _, i := range models.InverterTypes {
		assert.Contains(t, catalog.Inverters, i)
	}
	for _, b := range models.BatteryOptions {
		assert.Contains(t, catalog.Batteries, b)
	}
	for _, l := range models.ShadingLevels {
		assert.Contains(t, catalog.ShadingFactors, l)
	}
}

func TestDefaultCatalog_FreshCopy(t *testing.T) {
	first := DefaultCatalog()
	first.StateIncentives["AZ"] = 9999
	first.Panels[models.PanelSilfab440] = PanelSpec{Wattage: 1}

	second := DefaultCatalog()
	assert.Equal(t, 100.0, second.StateIncentives["AZ"])
	assert.Equal(t, 440.0, second.Panels[models.PanelSilfab440].Wattage)
}

func TestCatalog_Lookups(t *testing.T) {
	catalog := DefaultCatalog()

	assert.Equal(t, catalog.Panels[models.PanelSilfab440], catalog.Panel("unknown"))
	assert.Equal(t, catalog.Inverters[models.InverterEnphaseIQ8], catalog.Inverter("unknown"))
	assert.Equal(t, catalog.Batteries[models.BatteryNone], catalog.Battery("unknown"))
	assert.Equal(t, 1.0, catalog.ShadingFactor("unknown"))
	assert.Equal(t, 0.7, catalog.ShadingFactor(models.ShadingHeavy))
	assert.Equal(t, 400.0, catalog.StateIncentive("NY"))
	assert.Zero(t, catalog.StateIncentive("ZZ"))
	assert.Zero(t, catalog.StateIncentive(""))
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Catalog)
		wantErr string
	}{
		{
			name:    "missing default panel",
			mutate:  func(c *Catalog) { delete(c.Panels, models.DefaultPanelType) },
			wantErr: "default panel",
		},
		{
			name:    "zero wattage panel",
			mutate:  func(c *Catalog) { c.Panels[models.PanelQCells410] = PanelSpec{Name: "broken"} },
			wantErr: "positive wattage",
		},
		{
			name:    "missing default inverter",
			mutate:  func(c *Catalog) { delete(c.Inverters, models.DefaultInverterType) },
			wantErr: "default inverter",
		},
		{
			name:    "missing default battery",
			mutate:  func(c *Catalog) { delete(c.Batteries, models.DefaultBatteryOption) },
			wantErr: "default battery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := DefaultCatalog()
			tt.mutate(&catalog)

			err := catalog.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCatalog_Override(t *testing.T) {
	doc := []byte(`
panels:
  silfab-440:
    name: Silfab Elite 440 (regional pricing)
    wattage: 440
    efficiency: 22.0
    cost: 250
    warranty_years: 30
shading_factors:
  heavy: 0.6
state_incentives:
  wa: 175
`)

	catalog, err := ParseCatalog(doc)
	require.NoError(t, err)

	assert.Equal(t, 250.0, catalog.Panel(models.PanelSilfab440).Cost)
	assert.Equal(t, 0.6, catalog.ShadingFactor(models.ShadingHeavy))
	assert.Equal(t, 175.0, catalog.StateIncentive("WA"))
	// Untouched entries keep their defaults.
	assert.Equal(t, 300.0, catalog.Panel(models.PanelRECAlpha430).Cost)
	assert.Equal(t, 0.95, catalog.ShadingFactor(models.ShadingLight))
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "unknown panel", doc: "panels:\n  acme-9000:\n    wattage: 500\n", wantErr: "unknown panel type"},
		{name: "unknown inverter", doc: "inverters:\n  acme:\n    efficiency: 0.9\n", wantErr: "unknown inverter type"},
		{name: "unknown battery", doc: "batteries:\n  acme:\n    cost: 1\n", wantErr: "unknown battery option"},
		{name: "unknown shading", doc: "shading_factors:\n  total: 0.1\n", wantErr: "unknown shading level"},
		{name: "zero wattage", doc: "panels:\n  qcells-410:\n    wattage: 0\n", wantErr: "positive wattage"},
		{name: "malformed yaml", doc: "panels: [", wantErr: "failed to parse catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("state_incentives:\n  NV: 125\n"), 0o600))

		catalog, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, 125.0, catalog.StateIncentive("NV"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog file")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("panels:\n  bogus:\n    wattage: 1\n"), 0o600))

		_, err := LoadCatalog(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid catalog file")
	})
}
