package parser

import (
	"fmt"
	"regexp"
)

// Shopify order numbers are short sequential integers ("#4521"). Without the
// context label the fallback only accepts runs whose first digit is in the
// configured lead class, which filters out years, zero-padded codes and
// check digits.
func shopifyPatterns(th Thresholds) (patternSet, error) {
	primary, err := regexp.Compile(fmt.Sprintf(
		`%s\D{0,%d}?(\d{%d,%d})(?:\D|$)`,
		contextPrefix(`shopify`, th.ContextGap),
		th.ContextGap, th.ShopifyMin, th.ShopifyMax,
	))
	if err != nil {
		return patternSet{}, err
	}

	fallback, err := regexp.Compile(fmt.Sprintf(
		`(?:^|\D)([%s]\d{%d,%d})(?:\D|$)`,
		th.ShopifyFallbackLead, th.ShopifyFallbackMin-1, th.ShopifyFallbackMax-1,
	))
	if err != nil {
		return patternSet{}, err
	}

	return patternSet{primary: primary, fallback: fallback}, nil
}
