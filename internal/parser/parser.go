package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// Engine turns the plain text of a sales receipt into an ExtractionResult.
// All patterns are compiled by New; an Engine is read-only afterwards and
// safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	orders     orderChains
	folio      *regexp.Regexp
	fileFolio  *regexp.Regexp
	total      *regexp.Regexp
}

// New compiles the pattern table for the given thresholds.
func New(th Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	orders, err := buildOrderChains(th)
	if err != nil {
		return nil, err
	}
	folio, fileFolio, err := folioPatterns(th)
	if err != nil {
		return nil, fmt.Errorf("folio patterns: %w", err)
	}
	total, err := totalPattern(th)
	if err != nil {
		return nil, fmt.Errorf("total pattern: %w", err)
	}

	return &Engine{
		thresholds: th,
		orders:     orders,
		folio:      folio,
		fileFolio:  fileFolio,
		total:      total,
	}, nil
}

var defaultEngine = mustNew(DefaultThresholds())

func mustNew(th Thresholds) *Engine {
	e, err := New(th)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the shared engine built from DefaultThresholds.
func Default() *Engine {
	return defaultEngine
}

// Extract runs the default engine. See Engine.Extract.
func Extract(rawText, fileName string) models.ExtractionResult {
	return defaultEngine.Extract(rawText, fileName)
}

// Thresholds returns the values the engine was built with.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Extract classifies the platform and pulls the order identifier, folio and
// total out of rawText. fileName is only used as a folio fallback. Every
// field is optional and found independently; Extract never fails.
func (e *Engine) Extract(rawText, fileName string) models.ExtractionResult {
	normalized := Normalize(rawText)
	lower := strings.ToLower(normalized)
	return e.extract(normalized, lower, Classify(lower), fileName)
}

// ExtractAs is Extract with the platform forced instead of classified.
func (e *Engine) ExtractAs(rawText, fileName string, platform models.Platform) models.ExtractionResult {
	normalized := Normalize(rawText)
	return e.extract(normalized, strings.ToLower(normalized), platform, fileName)
}

func (e *Engine) extract(normalized, lower string, platform models.Platform, fileName string) models.ExtractionResult {
	return models.ExtractionResult{
		Platform:       platform,
		OrderID:        e.OrderID(lower, platform),
		Folio:          e.Folio(normalized, fileName),
		Total:          e.FindTotal(normalized),
		SourceFileName: fileName,
	}
}
