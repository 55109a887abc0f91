package parser

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"accents folded", "MÉRCADO LIBRE", "MERCADO LIBRE"},
		{"tilde folded", "ñandú", "nandu"},
		{"letters without decomposition", "Straße Ø Łódź", "Strasse O Lodz"},
		{"ligature", "Æther", "AEther"},
		{"tabs and spaces collapsed", "Venta\t\t DM   Amazon", "Venta DM Amazon"},
		{"non-breaking spaces", "Total\u00a0\u00a0$1,050.00", "Total $1,050.00"},
		{"newlines kept", "línea 1\r\nlínea 2", "linea 1\nlinea 2"},
		{"case preserved", "TOTAL Mxn", "TOTAL Mxn"},
		{"surrounding space trimmed", "  folio 12345 \n", "folio 12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLower(t *testing.T) {
	got := NormalizeLower("Venta DM  MÉRCADO Libre")
	if got != "venta dm mercado libre" {
		t.Errorf("got %q, want %q", got, "venta dm mercado libre")
	}
}

func TestFoldLines(t *testing.T) {
	got := foldLines("venta dm\namazon\n\n 702")
	if got != "venta dm amazon 702" {
		t.Errorf("got %q, want %q", got, "venta dm amazon 702")
	}
}

func TestStripSpaces(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"702 - 5831275 - 1421011", "702-5831275-1421011"},
		{"4521", "4521"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := stripSpaces(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
