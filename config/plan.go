package config

import (
	"fmt"

	"github.com/simeonreusch/planobs/core/astro"
	"github.com/simeonreusch/planobs/core/plan"
)

// PlanConfig defines the window-engine defaults loaded from configuration.
type PlanConfig struct {
	MaxAirmass    float64  `json:"max_airmass"`
	WindowHours   float64  `json:"window_hours"`
	ExposureSec   int      `json:"exposure_sec"`
	Bands         []string `json:"bands"`
	SwitchFilters bool     `json:"switch_filters"`
}

// SetDefaults applies the standard follow-up parameters.
func (c *PlanConfig) SetDefaults() {
	if c.MaxAirmass == 0 {
		c.MaxAirmass = 1.9
	}
	if c.WindowHours == 0 {
		c.WindowHours = 24
	}
	if c.ExposureSec == 0 {
		c.ExposureSec = 300
	}
	if len(c.Bands) == 0 {
		c.Bands = []string{"g", "r"}
	}
}

// Validate checks the band selection.
func (c PlanConfig) Validate() error {
	for _, b := range c.Bands {
		if b != "g" && b != "r" {
			return fmt.Errorf("unknown band %q", b)
		}
	}
	if c.MaxAirmass < 1 {
		return fmt.Errorf("max_airmass %.2f below 1", c.MaxAirmass)
	}
	return nil
}

// BandList converts the configured band names to engine bands.
func (c PlanConfig) BandList() []plan.Band {
	bands := make([]plan.Band, len(c.Bands))
	for i, b := range c.Bands {
		bands[i] = plan.Band(b)
	}
	return bands
}

// SiteConfig describes the observing site.
type SiteConfig struct {
	Name       string  `json:"name"`
	LatDeg     float64 `json:"lat_deg"`
	LonDeg     float64 `json:"lon_deg"`
	ElevationM float64 `json:"elevation_m"`
	Timezone   string  `json:"timezone"`
}

// SetDefaults selects Palomar when no site is configured.
func (c *SiteConfig) SetDefaults() {
	if c.Name == "" {
		p := astro.Palomar()
		c.Name = p.Name
		c.LatDeg = p.LatDeg
		c.LonDeg = p.LonDeg
		c.ElevationM = p.ElevationM
		c.Timezone = p.Timezone
	}
}

// Site converts the configuration to an astro.Site.
func (c SiteConfig) Site() astro.Site {
	return astro.Site{
		Name:       c.Name,
		LatDeg:     c.LatDeg,
		LonDeg:     c.LonDeg,
		ElevationM: c.ElevationM,
		Timezone:   c.Timezone,
	}
}
