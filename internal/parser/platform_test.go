package parser

import (
	"testing"

	"github.com/insightdelivered/order-scanner/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Platform
	}{
		{"mercado libre", "venta dm mercado libre", models.PlatformMercadoLibre},
		{"meli shorthand", "envio meli full", models.PlatformMercadoLibre},
		{"shopify", "pedido shopify #4521", models.PlatformShopify},
		{"amazon", "amazon.com.mx", models.PlatformAmazon},
		{"shopify before amazon", "shopify checkout, shipped by amazon", models.PlatformShopify},
		{"mercado before everything", "amazon shopify mercado", models.PlatformMercadoLibre},
		{"no keyword", "factura 123456", models.PlatformUnknown},
		{"empty", "", models.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got != tt.expected {
				t.Errorf("Classify(%q): got %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Platform
		wantOK   bool
	}{
		{"MercadoLibre", models.PlatformMercadoLibre, true},
		{"meli", models.PlatformMercadoLibre, true},
		{" Shopify ", models.PlatformShopify, true},
		{"AMAZON", models.PlatformAmazon, true},
		{"", models.PlatformUnknown, true},
		{"ebay", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePlatform(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
