package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"go.uber.org/zap"
)

type row struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

func csvConfig() export.Config[row] {
	return export.Config[row]{
		Filename: "orders",
		Headers:  []string{"Name", "Total"},
		Row:      func(r row) []string { return []string{r.Name, r.Total} },
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	got := export.Filename("orders", "csv", now)
	if got != "orders-2026-09-01.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestServeCSV_WritesBOMAndCRLF(t *testing.T) {
	rec := httptest.NewRecorder()
	data := []row{{Name: "Mug", Total: "€5.00"}, {Name: "Plate", Total: "€10.00"}}

	if err := export.ServeCSV(rec, csvConfig(), data, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	body := rec.Body.Bytes()
	if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("missing UTF-8 BOM")
	}
	if !bytes.Contains(body, []byte("\r\n")) {
		t.Error("missing CRLF line endings")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "orders-") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// The payload after the BOM parses back to the same cells.
	r := csv.NewReader(bytes.NewReader(body[3:]))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if records[1][1] != "€5.00" || records[2][1] != "€10.00" {
		t.Errorf("totals = %q, %q", records[1][1], records[2][1])
	}
}

func TestServeCSV_EmptyDataExportsHeaderOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := export.ServeCSV(rec, csvConfig(), nil, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(bytes.NewReader(rec.Body.Bytes()[3:]))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want header row only", len(records))
	}
}

func TestServeCSV_SkipsMismatchedRows(t *testing.T) {
	cfg := export.Config[row]{
		Filename: "orders",
		Headers:  []string{"Name", "Total"},
		Row: func(r row) []string {
			if r.Name == "bad" {
				return []string{"only-one-cell"}
			}
			return []string{r.Name, r.Total}
		},
	}
	rec := httptest.NewRecorder()
	data := []row{{Name: "good", Total: "1"}, {Name: "bad"}, {Name: "also-good", Total: "2"}}
	if err := export.ServeCSV(rec, cfg, data, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(bytes.NewReader(rec.Body.Bytes()[3:]))
	records, _ := r.ReadAll()
	if len(records) != 3 {
		t.Errorf("records = %d, want header + 2 surviving rows", len(records))
	}
}

func TestServeCSV_SanitizesFormulaCells(t *testing.T) {
	cfg := export.Config[row]{
		Filename: "orders",
		Headers:  []string{"Name", "Total"},
		Row:      func(r row) []string { return []string{r.Name, r.Total} },
	}
	rec := httptest.NewRecorder()
	data := []row{{Name: "=SUM(A1:A9)", Total: "1"}}
	if err := export.ServeCSV(rec, cfg, data, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(bytes.NewReader(rec.Body.Bytes()[3:]))
	records, _ := r.ReadAll()
	if records[1][0] != "'=SUM(A1:A9)" {
		t.Errorf("cell = %q, want quoted formula", records[1][0])
	}
}

func TestServeJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	data := []row{{Name: "Mug", Total: "€5.00"}}
	if err := export.ServeJSON(rec, "orders", data, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	var out []row
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "Mug" {
		t.Errorf("round-trip = %+v", out)
	}
}

func TestSanitizeCell(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"plain":       "plain",
		"=1+2":        "'=1+2",
		"+1":          "'+1",
		"-1":          "'-1",
		"@cmd":        "'@cmd",
		"\t=formula":  "'=formula",
		"\r@payload":  "'@payload",
		"mid=formula": "mid=formula",
	}
	for in, want := range cases {
		if got := export.SanitizeCell(in); got != want {
			t.Errorf("SanitizeCell(%q) = %q, want %q", in, got, want)
		}
	}
}
