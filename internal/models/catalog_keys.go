package models

import "strings"

// PanelType identifies a solar panel model in the equipment catalog.
// Unknown keys resolve to DefaultPanelType.
type PanelType string

// Known panel models.
const (
	PanelSilfab440       PanelType = "silfab-440"
	PanelRECAlpha430     PanelType = "rec-alpha-430"
	PanelQCells410       PanelType = "qcells-410"
	PanelPanasonic410    PanelType = "panasonic-evervolt-410"
	DefaultPanelType               = PanelSilfab440
)

// PanelTypes lists every known panel key in catalog order.
var PanelTypes = []PanelType{PanelSilfab440, PanelRECAlpha430, PanelQCells410, PanelPanasonic410}

// ParsePanelType maps a free-form key to a PanelType, falling back to the default.
func ParsePanelType(s string) PanelType {
	key := PanelType(normalizeKey(s))
	for _, p := range PanelTypes {
		if p == key {
			return p
		}
	}
	return DefaultPanelType
}

// UnmarshalText decodes leniently; unknown values become the default variant.
// An empty value stays empty so stored records decode unchanged.
func (p *PanelType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = ""
		return nil
	}
	*p = ParsePanelType(string(text))
	return nil
}

// InverterType identifies an inverter model in the equipment catalog.
type InverterType string

// Known inverter models.
const (
	InverterEnphaseIQ8      InverterType = "enphase-iq8"
	InverterSolarEdgeHDWave InverterType = "solaredge-hd-wave"
	InverterSMASunnyBoy     InverterType = "sma-sunny-boy"
	DefaultInverterType                  = InverterEnphaseIQ8
)

// InverterTypes lists every known inverter key in catalog order.
var InverterTypes = []InverterType{InverterEnphaseIQ8, InverterSolarEdgeHDWave, InverterSMASunnyBoy}

// ParseInverterType maps a free-form key to an InverterType, falling back to the default.
func ParseInverterType(s string) InverterType {
	key := InverterType(normalizeKey(s))
	for _, i := range InverterTypes {
		if i == key {
			return i
		}
	}
	return DefaultInverterType
}

// UnmarshalText decodes leniently; unknown values become the default variant.
// An empty value stays empty so stored records decode unchanged.
func (i *InverterType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*i = ""
		return nil
	}
	*i = ParseInverterType(string(text))
	return nil
}

// BatteryOption identifies an optional home battery in the equipment catalog.
type BatteryOption string

// Known battery options.
const (
	BatteryNone           BatteryOption = "none"
	BatteryTeslaPowerwall BatteryOption = "tesla-powerwall-3"
	BatteryEnphaseIQ5P    BatteryOption = "enphase-iq-5p"
	BatteryFranklinAPower BatteryOption = "franklin-apower-2"
	DefaultBatteryOption                = BatteryNone
)

// BatteryOptions lists every known battery key in catalog order.
var BatteryOptions = []BatteryOption{BatteryNone, BatteryTeslaPowerwall, BatteryEnphaseIQ5P, BatteryFranklinAPower}

// ParseBatteryOption maps a free-form key to a BatteryOption, falling back to none.
func ParseBatteryOption(s string) BatteryOption {
	key := BatteryOption(normalizeKey(s))
	for _, b := range BatteryOptions {
		if b == key {
			return b
		}
	}
	return DefaultBatteryOption
}

// UnmarshalText decodes leniently; unknown values become the default variant.
// An empty value stays empty so stored records decode unchanged.
func (b *BatteryOption) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*b = ""
		return nil
	}
	*b = ParseBatteryOption(string(text))
	return nil
}

// ShadingLevel describes how much of the roof is shaded during the day.
type ShadingLevel string

// Shading buckets.
const (
	ShadingNone         ShadingLevel = "none"
	ShadingLight        ShadingLevel = "light"
	ShadingModerate     ShadingLevel = "moderate"
	ShadingHeavy        ShadingLevel = "heavy"
	DefaultShadingLevel              = ShadingNone
)

// ShadingLevels lists every shading bucket from least to most shaded.
var ShadingLevels = []ShadingLevel{ShadingNone, ShadingLight, ShadingModerate, ShadingHeavy}

// ParseShadingLevel maps a free-form value to a ShadingLevel, falling back to none.
func ParseShadingLevel(s string) ShadingLevel {
	key := ShadingLevel(normalizeKey(s))
	for _, l := range ShadingLevels {
		if l == key {
			return l
		}
	}
	return DefaultShadingLevel
}

// UnmarshalText decodes leniently; unknown values become the default variant.
// An empty value stays empty so stored records decode unchanged.
func (l *ShadingLevel) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*l = ""
		return nil
	}
	*l = ParseShadingLevel(string(text))
	return nil
}

// RoofType is the roofing material. It does not affect the economics today
// but is carried through to saved calculations.
type RoofType string

// Roof materials.
const (
	RoofAsphaltShingle RoofType = "asphalt-shingle"
	RoofTile           RoofType = "tile"
	RoofMetal          RoofType = "metal"
	RoofFlat           RoofType = "flat"
	DefaultRoofType             = RoofAsphaltShingle
)

// RoofTypes lists every roof material.
var RoofTypes = []RoofType{RoofAsphaltShingle, RoofTile, RoofMetal, RoofFlat}

// ParseRoofType maps a free-form value to a RoofType, falling back to asphalt shingle.
func ParseRoofType(s string) RoofType {
	key := RoofType(normalizeKey(s))
	for _, r := range RoofTypes {
		if r == key {
			return r
		}
	}
	return DefaultRoofType
}

// UnmarshalText decodes leniently; unknown values become the default variant.
// An empty value stays empty so stored records decode unchanged.
func (r *RoofType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = ""
		return nil
	}
	*r = ParseRoofType(string(text))
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
