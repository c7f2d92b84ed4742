package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/models"
)

func newCatalogCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List equipment and option keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := global.loadCatalog()
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), catalog, global.jsonOutput)
		},
	}
}

func writeCatalog(w io.Writer, c engine.Catalog, asJSON bool) error {
	if asJSON {
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Panels") + "\n")
	for _, key := range models.PanelTypes {
		p := c.Panel(key)
		b.WriteString(row(string(key), fmt.Sprintf("%s, %.0f W, $%.0f", p.Name, p.Wattage, p.Cost)) + "\n")
	}

	b.WriteString(sectionStyle.Render("Inverters") + "\n")
	for _, key := range models.InverterTypes {
		i := c.Inverter(key)
		b.WriteString(row(string(key), fmt.Sprintf("%s, %.1f%% efficient", i.Name, i.Efficiency*100)) + "\n")
	}

	b.WriteString(sectionStyle.Render("Batteries") + "\n")
	for _, key := range models.BatteryOptions {
		bat := c.Battery(key)
		b.WriteString(row(string(key), fmt.Sprintf("%s, %.1f kWh, $%.0f", bat.Name, bat.CapacityKwh, bat.Cost)) + "\n")
	}

	b.WriteString(sectionStyle.Render("Shading") + "\n")
	for _, key := range models.ShadingLevels {
		b.WriteString(row(string(key), fmt.Sprintf("x%.2f", c.ShadingFactor(key))) + "\n")
	}

	states := make([]string, 0, len(c.StateIncentives))
	for s := range c.StateIncentives {
		states = append(states, s)
	}
	sort.Strings(states)
	b.WriteString(sectionStyle.Render("State incentives") + "\n")
	for _, s := range states {
		b.WriteString(row(s, fmt.Sprintf("$%.0f/kW", c.StateIncentives[s])) + "\n")
	}

	fmt.Fprint(w, b.String())
	return nil
}
