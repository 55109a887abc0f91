package parser

import (
	"fmt"
	"regexp"
)

// Thresholds holds the tunable digit-length ranges and gap caps used to
// build the pattern table. Field values are counts of characters.
type Thresholds struct {
	// ContextGap caps the filler between "venta dm", the platform keyword
	// and the captured identifier.
	ContextGap int `mapstructure:"context_gap"`

	MercadoLibreMin         int    `mapstructure:"mercadolibre_min"`
	MercadoLibreMax         int    `mapstructure:"mercadolibre_max"`
	MercadoLibrePrefix      string `mapstructure:"mercadolibre_prefix"`
	MercadoLibreFallbackMin int    `mapstructure:"mercadolibre_fallback_min"`
	MercadoLibreFallbackMax int    `mapstructure:"mercadolibre_fallback_max"`

	// Amazon identifiers look like 702-5831275-1421011.
	AmazonFirstMin   int `mapstructure:"amazon_first_min"`
	AmazonSegmentMin int `mapstructure:"amazon_segment_min"`

	ShopifyMin          int    `mapstructure:"shopify_min"`
	ShopifyMax          int    `mapstructure:"shopify_max"`
	ShopifyFallbackMin  int    `mapstructure:"shopify_fallback_min"`
	ShopifyFallbackMax  int    `mapstructure:"shopify_fallback_max"`
	ShopifyFallbackLead string `mapstructure:"shopify_fallback_lead"` // character class body, e.g. "3-9"

	FolioGap     int `mapstructure:"folio_gap"`
	FolioMin     int `mapstructure:"folio_min"`
	FolioMax     int `mapstructure:"folio_max"`
	FileFolioMin int `mapstructure:"file_folio_min"`

	TotalGap int `mapstructure:"total_gap"`
}

// DefaultThresholds returns the values observed on real Venta DM receipts.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ContextGap: 40,

		MercadoLibreMin:         10,
		MercadoLibreMax:         20,
		MercadoLibrePrefix:      "2000",
		MercadoLibreFallbackMin: 13,
		MercadoLibreFallbackMax: 20,

		AmazonFirstMin:   2,
		AmazonSegmentMin: 5,

		ShopifyMin:          3,
		ShopifyMax:          6,
		ShopifyFallbackMin:  4,
		ShopifyFallbackMax:  6,
		ShopifyFallbackLead: "3-9",

		FolioGap:     12,
		FolioMin:     5,
		FolioMax:     7,
		FileFolioMin: 5,

		TotalGap: 32,
	}
}

var leadClassPattern = regexp.MustCompile(`^(?:\d|\d-\d)+$`)

// Validate checks that every range is well formed.
func (t Thresholds) Validate() error {
	ranges := []struct {
		name     string
		min, max int
	}{
		{"mercadolibre", t.MercadoLibreMin, t.MercadoLibreMax},
		{"mercadolibre fallback", t.MercadoLibreFallbackMin, t.MercadoLibreFallbackMax},
		{"shopify", t.ShopifyMin, t.ShopifyMax},
		{"shopify fallback", t.ShopifyFallbackMin, t.ShopifyFallbackMax},
		{"folio", t.FolioMin, t.FolioMax},
	}
	for _, r := range ranges {
		if r.min < 1 || r.max < r.min {
			return fmt.Errorf("invalid %s digit range %d-%d", r.name, r.min, r.max)
		}
	}

	gaps := map[string]int{
		"context_gap": t.ContextGap,
		"folio_gap":   t.FolioGap,
		"total_gap":   t.TotalGap,
	}
	for name, v := range gaps {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}

	if t.AmazonFirstMin < 1 || t.AmazonSegmentMin < 1 || t.FileFolioMin < 1 {
		return fmt.Errorf("amazon and file folio minimums must be positive")
	}
	for _, r := range t.MercadoLibrePrefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("mercadolibre prefix %q must be digits only", t.MercadoLibrePrefix)
		}
	}
	if len(t.MercadoLibrePrefix) >= t.MercadoLibreFallbackMin {
		return fmt.Errorf("mercadolibre prefix %q is not shorter than the fallback minimum %d",
			t.MercadoLibrePrefix, t.MercadoLibreFallbackMin)
	}
	if !leadClassPattern.MatchString(t.ShopifyFallbackLead) {
		return fmt.Errorf("shopify fallback lead %q must be a digit class such as 3-9", t.ShopifyFallbackLead)
	}
	return nil
}
