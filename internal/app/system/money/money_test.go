package money_test

import (
	"testing"

	"github.com/merchdesk/merchdesk/internal/app/system/money"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		cents    int64
		currency string
		want     string
	}{
		{550, "EUR", "€5.50"},
		{1000, "USD", "$10.00"},
		{99, "GBP", "£0.99"},
		{0, "EUR", "€0.00"},
		{123456, "TRY", "₺1234.56"},
		{500, "XYZ", "5.00 XYZ"},
	}
	for _, tc := range cases {
		if got := money.Format(tc.cents, tc.currency); got != tc.want {
			t.Errorf("Format(%d, %s) = %q, want %q", tc.cents, tc.currency, got, tc.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	if got := money.FormatFloat(5, "EUR"); got != "€5.00" {
		t.Errorf("FormatFloat(5, EUR) = %q", got)
	}
	if got := money.FormatFloat(9.5, "XYZ"); got != "9.50 XYZ" {
		t.Errorf("FormatFloat(9.5, XYZ) = %q", got)
	}
}

func TestSymbol(t *testing.T) {
	if money.Symbol("EUR") != "€" {
		t.Error("EUR symbol")
	}
	if money.Symbol("XYZ") != "XYZ" {
		t.Error("unknown currency should fall back to the code")
	}
}
