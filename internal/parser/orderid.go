package parser

import (
	"fmt"
	"regexp"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// patternSet is the pair of matchers a platform contributes: a primary one
// anchored on the "venta dm <platform>" context and a context-free fallback.
type patternSet struct {
	primary  *regexp.Regexp
	fallback *regexp.Regexp
}

// orderChains maps each platform to the matchers tried for it, in order.
type orderChains map[models.Platform][]*regexp.Regexp

func buildOrderChains(th Thresholds) (orderChains, error) {
	ml, err := mercadoLibrePatterns(th)
	if err != nil {
		return nil, fmt.Errorf("mercadolibre patterns: %w", err)
	}
	amz, err := amazonPatterns(th)
	if err != nil {
		return nil, fmt.Errorf("amazon patterns: %w", err)
	}
	shop, err := shopifyPatterns(th)
	if err != nil {
		return nil, fmt.Errorf("shopify patterns: %w", err)
	}

	return orderChains{
		models.PlatformMercadoLibre: {ml.primary, ml.fallback},
		models.PlatformAmazon:       {amz.primary, amz.fallback},
		models.PlatformShopify:      {shop.primary, shop.fallback},
		// Without a platform keyword only self-identifying shapes are tried;
		// there is no generic digit-run fallback.
		models.PlatformUnknown: {ml.fallback, amz.fallback},
	}, nil
}

// OrderID runs the chain for platform over normalized, lower-cased text and
// returns the first identifier found, or "" when the chain is exhausted.
func (e *Engine) OrderID(normalizedLower string, platform models.Platform) string {
	chain, ok := e.orders[platform]
	if !ok {
		chain = e.orders[models.PlatformUnknown]
	}

	text := foldLines(normalizedLower)
	for _, re := range chain {
		if m := re.FindStringSubmatch(text); m != nil {
			return stripSpaces(m[1])
		}
	}
	return ""
}

// contextPrefix matches "venta dm", up to gap characters, then keyword.
func contextPrefix(keyword string, gap int) string {
	return fmt.Sprintf(`(?is)venta\s*dm.{0,%d}?%s`, gap, keyword)
}
