package products

import (
	"strings"
	"testing"
)

const uploadHeaderLine = "name,sku,category,price,currency,stock\n"

func TestParseUploadCSV(t *testing.T) {
	in := uploadHeaderLine +
		"Mug,SKU-1,kitchen,5.50,EUR,12\n" +
		"Plate,SKU-2,kitchen,9.00,eur,0\n"
	rows, errs := parseUploadCSV(strings.NewReader(in))
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Mug" || rows[0].SKU != "SKU-1" || rows[0].Price != 5.50 || rows[0].Stock != 12 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Currency != "EUR" {
		t.Errorf("currency not uppercased: %q", rows[1].Currency)
	}
	if !rows[0].Active {
		t.Error("uploaded products should default to active")
	}
}

func TestParseUploadCSVStripsBOM(t *testing.T) {
	in := "\ufeff" + uploadHeaderLine + "Mug,SKU-1,kitchen,5.50,EUR,12\n"
	rows, errs := parseUploadCSV(strings.NewReader(in))
	if len(errs) != 0 || len(rows) != 1 {
		t.Errorf("rows = %d, errs = %v", len(rows), errs)
	}
}

func TestParseUploadCSVRejectsBadHeader(t *testing.T) {
	in := "title,sku,category,price,currency,stock\nMug,SKU-1,kitchen,5.50,EUR,12\n"
	rows, errs := parseUploadCSV(strings.NewReader(in))
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "header must be") {
		t.Errorf("errs = %v", errs)
	}
}

func TestParseUploadCSVEmptyFile(t *testing.T) {
	rows, errs := parseUploadCSV(strings.NewReader(""))
	if len(rows) != 0 || len(errs) != 1 {
		t.Errorf("rows = %v, errs = %v", rows, errs)
	}
}

func TestParseUploadCSVRowErrors(t *testing.T) {
	in := uploadHeaderLine +
		",SKU-1,kitchen,5.50,EUR,12\n" + // missing name
		"Mug,,kitchen,5.50,EUR,12\n" + // missing sku
		"Mug,SKU-3,kitchen,free,EUR,12\n" + // bad price
		"Mug,SKU-4,kitchen,-2,EUR,12\n" + // negative price
		"Mug,SKU-5,kitchen,5.50,EUR,-1\n" + // negative stock
		"Bowl,SKU-6,kitchen,3.25,EUR,4\n" // fine
	rows, errs := parseUploadCSV(strings.NewReader(in))
	if len(rows) != 1 || rows[0].SKU != "SKU-6" {
		t.Errorf("rows = %+v", rows)
	}
	if len(errs) != 5 {
		t.Fatalf("errs = %v, want 5", errs)
	}
	// Row numbers count the header line, so the first data row is row 2.
	if !strings.Contains(errs[0], "row 2: name is required") {
		t.Errorf("errs[0] = %q", errs[0])
	}
	if !strings.Contains(errs[4], "row 6: stock must be zero or more") {
		t.Errorf("errs[4] = %q", errs[4])
	}
}

func TestValidateUploadRowTooFewColumns(t *testing.T) {
	_, msg := validateUploadRow([]string{"Mug", "SKU-1"})
	if msg != "too few columns" {
		t.Errorf("msg = %q", msg)
	}
}
