package parser

import (
	"strings"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// platformKeywords is checked in order; the first platform with a keyword
// present in the text wins.
var platformKeywords = []struct {
	platform models.Platform
	keywords []string
}{
	{models.PlatformMercadoLibre, []string{"mercado", "meli"}},
	{models.PlatformShopify, []string{"shopify"}},
	{models.PlatformAmazon, []string{"amazon"}},
}

// Classify identifies the sales platform from normalized, lower-cased text.
func Classify(normalizedLower string) models.Platform {
	for _, p := range platformKeywords {
		if containsAny(normalizedLower, p.keywords) {
			return p.platform
		}
	}
	return models.PlatformUnknown
}

// ParsePlatform maps a user-supplied platform name to a Platform.
func ParsePlatform(name string) (models.Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mercadolibre", "mercado libre", "meli", "ml":
		return models.PlatformMercadoLibre, true
	case "shopify":
		return models.PlatformShopify, true
	case "amazon":
		return models.PlatformAmazon, true
	case "unknown", "":
		return models.PlatformUnknown, true
	default:
		return "", false
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
