package parser

import (
	"fmt"
	"regexp"
)

// MercadoLibre receipts read "Venta DM Mercado Libre ... 2000012345678901".
// Sale numbers issued by the platform start with 2000, which is what makes
// the fallback safe to run without the context label.
func mercadoLibrePatterns(th Thresholds) (patternSet, error) {
	primary, err := regexp.Compile(fmt.Sprintf(
		`%s\D{0,%d}?(\d{%d,%d})(?:\D|$)`,
		contextPrefix(`mercado\s*libre`, th.ContextGap),
		th.ContextGap, th.MercadoLibreMin, th.MercadoLibreMax,
	))
	if err != nil {
		return patternSet{}, err
	}

	rest := len(th.MercadoLibrePrefix)
	fallback, err := regexp.Compile(fmt.Sprintf(
		`(?:^|\D)(%s\d{%d,%d})(?:\D|$)`,
		regexp.QuoteMeta(th.MercadoLibrePrefix),
		th.MercadoLibreFallbackMin-rest, th.MercadoLibreFallbackMax-rest,
	))
	if err != nil {
		return patternSet{}, err
	}

	return patternSet{primary: primary, fallback: fallback}, nil
}
