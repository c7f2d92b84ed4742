package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/irradiance"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/utility"
)

type calculateOptions struct {
	*globalOptions

	address         string
	monthlyKwh      float64
	electricityRate float64
	lat             float64
	lon             float64
	roofArea        float64
	roofTilt        float64
	roofAzimuth     float64
	panel           string
	inverter        string
	battery         string
	shading         string
	roofType        string
	exportRate      float64
	hasPool         bool
	hasEV           bool
	planning        bool

	irradianceURL string
	irradianceKey string
	timeout       time.Duration
}

func newCalculateCommand(opts *calculateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Size a system and estimate savings",
		Long: `Run a full solar calculation locally.

Irradiance comes from IRRADIANCE_API_URL when it and IRRADIANCE_API_KEY are
set, otherwise from a latitude-based estimate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := opts.params(cmd)
			return runCalculate(cmd.Context(), opts, params, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.address, "address", "", "Street address, used for state incentives and utility lookup")
	f.Float64Var(&opts.monthlyKwh, "monthly-kwh", 0, "Average monthly electricity usage in kWh")
	f.Float64Var(&opts.electricityRate, "rate", 0, "Retail electricity rate in $/kWh")
	f.Float64Var(&opts.lat, "lat", 0, "Latitude")
	f.Float64Var(&opts.lon, "lon", 0, "Longitude")
	f.Float64Var(&opts.roofArea, "roof-area", 0, "Usable roof area in square feet")
	f.Float64Var(&opts.roofTilt, "roof-tilt", 0, "Roof tilt in degrees")
	f.Float64Var(&opts.roofAzimuth, "roof-azimuth", 0, "Roof azimuth in degrees")
	f.StringVar(&opts.panel, "panel", string(models.DefaultPanelType), "Panel model key")
	f.StringVar(&opts.inverter, "inverter", string(models.DefaultInverterType), "Inverter model key")
	f.StringVar(&opts.battery, "battery", string(models.DefaultBatteryOption), "Battery option key")
	f.StringVar(&opts.shading, "shading", string(models.ShadingNone), "Shading level (none, light, moderate, heavy)")
	f.StringVar(&opts.roofType, "roof-type", "", "Roof material")
	f.Float64Var(&opts.exportRate, "export-rate", 0, "Net metering export rate in $/kWh")
	f.BoolVar(&opts.hasPool, "pool", false, "Household has a pool")
	f.BoolVar(&opts.hasEV, "ev", false, "Household has an electric vehicle")
	f.BoolVar(&opts.planning, "planning-additions", false, "Household plans to add load")
	f.StringVar(&opts.irradianceURL, "irradiance-url", "", "Irradiance endpoint (overrides IRRADIANCE_API_URL)")
	f.DurationVar(&opts.timeout, "timeout", irradiance.DefaultTimeout, "Irradiance request timeout")

	return cmd
}

// params converts flags to engine input. Optional values are only set when
// their flag was given, so the engine applies its own defaults.
func (o *calculateOptions) params(cmd *cobra.Command) models.SolarInputParams {
	f := cmd.Flags()
	p := models.SolarInputParams{
		Address:           o.address,
		MonthlyKwh:        o.monthlyKwh,
		ElectricityRate:   o.electricityRate,
		PanelType:         models.ParsePanelType(o.panel),
		InverterType:      models.ParseInverterType(o.inverter),
		BatteryOption:     models.ParseBatteryOption(o.battery),
		ShadingLevel:      models.ParseShadingLevel(o.shading),
		HasPool:           o.hasPool,
		HasEV:             o.hasEV,
		PlanningAdditions: o.planning,
	}
	if o.roofType != "" {
		p.RoofType = models.ParseRoofType(o.roofType)
	}
	if f.Changed("lat") || f.Changed("lon") {
		p.Coordinates = &models.Coordinates{Lat: o.lat, Lon: o.lon}
	}
	if f.Changed("roof-area") {
		p.RoofArea = &o.roofArea
	}
	if f.Changed("roof-tilt") {
		p.RoofTilt = &o.roofTilt
	}
	if f.Changed("roof-azimuth") {
		p.RoofAzimuth = &o.roofAzimuth
	}
	if f.Changed("export-rate") {
		p.UtilityRates = &models.UtilityRates{ExportRate: o.exportRate}
	}
	return p
}

// resolver returns a resolver backed by the configured endpoint, or one that
// always estimates from latitude.
func (o *calculateOptions) resolver() *irradiance.Resolver {
	url := o.irradianceURL
	if url == "" {
		url = os.Getenv("IRRADIANCE_API_URL")
	}
	key := os.Getenv("IRRADIANCE_API_KEY")

	var provider irradiance.Provider
	if url != "" && key != "" {
		provider = irradiance.NewHTTPProvider(url, key, o.timeout)
	}
	return irradiance.NewResolver(provider, 0, o.timeout, logger.Nop())
}

func runCalculate(ctx context.Context, opts *calculateOptions, params models.SolarInputParams, w io.Writer) error {
	if params.MonthlyKwh < 0 || params.ElectricityRate < 0 {
		return fmt.Errorf("--monthly-kwh and --rate must not be negative")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := opts.loadCatalog()
	if err != nil {
		return err
	}

	eng := engine.New(catalog, engine.WithUtilityLookup(utility.NewDirectory()))
	data := opts.resolver().Resolve(ctx, params.Location())

	result, err := eng.Calculate(params, data)
	if err != nil {
		return err
	}
	result.CalculatedAt = time.Now().UTC()

	if opts.jsonOutput {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintln(w, formatReport(result))
	return nil
}

func formatReport(r *models.CalculationResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Solar estimate"))
	if r.UtilityProvider != "" {
		b.WriteString(" " + labelStyle.UnsetWidth().Render(r.UtilityProvider))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("System") + "\n")
	b.WriteString(row("Size", fmt.Sprintf("%.2f kW (%d x %.0f W)", r.System.SystemSizeKw, r.System.PanelsNeeded, r.System.PanelWattage)) + "\n")
	b.WriteString(row("Panel / inverter", fmt.Sprintf("%s / %s", r.System.PanelType, r.System.InverterType)) + "\n")
	if r.System.BatteryCapacity > 0 {
		b.WriteString(row("Battery", fmt.Sprintf("%s (%.1f kWh)", r.System.BatteryOption, r.System.BatteryCapacity)) + "\n")
	}
	b.WriteString(row("Roof coverage", fmt.Sprintf("%.1f%%", r.System.RoofCoverage)) + "\n")

	b.WriteString(sectionStyle.Render("Production") + "\n")
	b.WriteString(row("Annual", fmt.Sprintf("%.0f kWh", r.Production.AnnualProduction)) + "\n")
	b.WriteString(row("Capacity factor", fmt.Sprintf("%.1f%%", r.Production.CapacityFactor)) + "\n")
	b.WriteString(row("Irradiance", fmt.Sprintf("%.2f sun-hours/day (%s)", r.Irradiance.Annual, r.Irradiance.Source)) + "\n")

	b.WriteString(sectionStyle.Render("Cost") + "\n")
	b.WriteString(row("Total cost", fmt.Sprintf("$%.0f", r.Financial.TotalCost)) + "\n")
	b.WriteString(row("Federal tax credit", fmt.Sprintf("-$%.0f", r.Financial.FederalTaxCredit)) + "\n")
	if r.Financial.StateIncentives > 0 {
		b.WriteString(row("State incentives ("+r.Financial.StateCode+")", fmt.Sprintf("-$%.0f", r.Financial.StateIncentives)) + "\n")
	}
	b.WriteString(row("Net cost", fmt.Sprintf("$%.0f", r.Financial.NetCost)) + "\n")

	b.WriteString(sectionStyle.Render("Savings") + "\n")
	b.WriteString(row("Annual", savingsStyle.Render(fmt.Sprintf("$%.0f", r.Financial.AnnualSavings))) + "\n")
	b.WriteString(row("25 years", savingsStyle.Render(fmt.Sprintf("$%.0f", r.Financial.TwentyFiveYearSavings))) + "\n")
	b.WriteString(row("Payback", fmt.Sprintf("%.1f years", r.Metrics.PaybackPeriod)) + "\n")
	b.WriteString(row("NPV", fmt.Sprintf("$%.0f", r.Metrics.NetPresentValue)) + "\n")
	b.WriteString(row("LCOE", formatLCOE(r.Metrics.LevelizedCostOfEnergy)) + "\n")

	var financing []string
	for _, o := range r.Financing {
		financing = append(financing, row(string(o.Type), fmt.Sprintf("$%.0f/mo, saves $%.0f", o.MonthlyPayment, o.Savings)))
	}
	if len(financing) > 0 {
		b.WriteString(sectionStyle.Render("Financing") + "\n")
		b.WriteString(panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, financing...)) + "\n")
	}

	b.WriteString(sectionStyle.Render("Environment") + "\n")
	b.WriteString(row("CO2 offset", fmt.Sprintf("%.1f t/yr", r.Environmental.CO2OffsetTons)))

	return b.String()
}

// formatLCOE renders a levelized cost given in cents per kWh.
func formatLCOE(centsPerKwh float64) string {
	return fmt.Sprintf("%.2f¢/kWh", centsPerKwh)
}
