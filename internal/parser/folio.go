package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
)

func folioPatterns(th Thresholds) (text, fileName *regexp.Regexp, err error) {
	text, err = regexp.Compile(fmt.Sprintf(
		`(?i)folio\D{0,%d}?(\d{%d,%d})(?:\D|$)`, th.FolioGap, th.FolioMin, th.FolioMax,
	))
	if err != nil {
		return nil, nil, err
	}
	// Invoice file names carry the folio as "..._F3_131640.pdf".
	fileName, err = regexp.Compile(fmt.Sprintf(
		`(?i)(?:^|[^a-z0-9])f3[_-]?(\d{%d,})`, th.FileFolioMin,
	))
	if err != nil {
		return nil, nil, err
	}
	return text, fileName, nil
}

// Folio returns the numeric folio labelled "folio" in text, falling back to
// the F3 token of the file name. Alphanumeric folios (fiscal UUIDs share the
// label on CFDI invoices) are never returned.
func (e *Engine) Folio(text, fileName string) string {
	if m := e.folio.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if fileName == "" {
		return ""
	}
	if m := e.fileFolio.FindStringSubmatch(filepath.Base(fileName)); m != nil {
		return m[1]
	}
	return ""
}
