package parser

import (
	"fmt"
	"regexp"
)

// Amazon order numbers are three hyphen-separated digit groups, e.g.
// 702-5831275-1421011. OCR sometimes puts a space around the hyphens.
func amazonPatterns(th Thresholds) (patternSet, error) {
	token := fmt.Sprintf(`\d{%d,} ?- ?\d{%d,} ?- ?\d{%d,}`,
		th.AmazonFirstMin, th.AmazonSegmentMin, th.AmazonSegmentMin)

	primary, err := regexp.Compile(fmt.Sprintf(
		`%s\D{0,%d}?(%s)`,
		contextPrefix(`amazon`, th.ContextGap), th.ContextGap, token,
	))
	if err != nil {
		return patternSet{}, err
	}

	fallback, err := regexp.Compile(fmt.Sprintf(`(?:^|\D)(%s)`, token))
	if err != nil {
		return patternSet{}, err
	}

	return patternSet{primary: primary, fallback: fallback}, nil
}
