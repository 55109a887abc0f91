package models

// Platform is the e-commerce channel a sale originated from.
type Platform string

const (
	PlatformMercadoLibre Platform = "MercadoLibre"
	PlatformShopify      Platform = "Shopify"
	PlatformAmazon       Platform = "Amazon"
	PlatformUnknown      Platform = "Unknown"
)

// ExtractionResult is the structured record produced for one document.
type ExtractionResult struct {
	Platform       Platform `json:"platform"`
	OrderID        string   `json:"orderId"`
	Folio          string   `json:"folio"`
	Total          *float64 `json:"total"` // nil when no total was found or it failed to parse
	SourceFileName string   `json:"sourceFileName"`
}

// Matched reports whether an order identifier was found. Records that are
// not matched are dropped by callers before export.
func (r ExtractionResult) Matched() bool {
	return r.OrderID != ""
}

// Document is a handle to a PDF held by a document source.
type Document struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}
