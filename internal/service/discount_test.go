package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountForCredit(t *testing.T) {
	tests := []struct {
		name   string
		credit string
		want   string
	}{
		{"zero credit", "0", "0"},
		{"low tier", "5000", "0"},
		{"just below mid threshold", "40000", "0"},
		{"just above mid threshold", "40000.01", "0.05"},
		{"mid tier", "50000", "0.05"},
		{"top of mid tier", "60000", "0.05"},
		{"just above high threshold", "60000.01", "0.1"},
		{"high tier", "75000", "0.1"},
		{"max credit", "100000", "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountForCredit(decimal.RequireFromString(tt.credit))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"credit %s: got %s, want %s", tt.credit, got, tt.want)
		})
	}
}

func TestTaxRateIsFixed(t *testing.T) {
	assert.True(t, TaxRate.Equal(decimal.RequireFromString("0.08")))
}
