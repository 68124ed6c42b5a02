// Package export writes the currently visible rows of a list page as a CSV
// or JSON download. Every page exports through this one writer so escaping
// behaves the same everywhere: encoding/csv handles commas, quotes, and
// newlines, and cells are additionally sanitized against spreadsheet
// formula injection.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config describes one export: the base filename (date-suffixed on
// download), the header row, and a per-item row mapper. Row must return
// exactly len(Headers) cells for every item.
type Config[T any] struct {
	Filename string
	Headers  []string
	Row      func(T) []string
}

// Filename returns the dated download name, e.g. "orders-2026-09-01.csv".
func Filename(base string, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, now.Format("2006-01-02"), ext)
}

// ServeCSV writes items as a CSV attachment. Empty data exports only the
// header row and logs a warning rather than failing. Rows whose mapped
// length disagrees with the header are logged and skipped.
func ServeCSV[T any](w http.ResponseWriter, cfg Config[T], items []T, log *zap.Logger) error {
	name := Filename(cfg.Filename, "csv", time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(name)))

	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write(cfg.Headers); err != nil {
		return err
	}

	if len(items) == 0 && log != nil {
		log.Warn("export requested with no data", zap.String("filename", name))
	}

	for _, item := range items {
		row := cfg.Row(item)
		if len(row) != len(cfg.Headers) {
			if log != nil {
				log.Error("export row length mismatch",
					zap.String("filename", name),
					zap.Int("got", len(row)),
					zap.Int("want", len(cfg.Headers)))
			}
			continue
		}
		for i, cell := range row {
			row[i] = SanitizeCell(cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ServeJSON writes items as an indented JSON attachment.
func ServeJSON[T any](w http.ResponseWriter, base string, items []T, log *zap.Logger) error {
	name := Filename(base, "json", time.Now())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(name)))

	if len(items) == 0 && log != nil {
		log.Warn("export requested with no data", zap.String("filename", name))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// SanitizeCell neutralizes cells a spreadsheet would execute as formulas.
// A leading =, +, -, or @ gets a single-quote prefix.
func SanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	if strings.HasPrefix(s, "\t") || strings.HasPrefix(s, "\r") {
		return "'" + strings.TrimLeft(s, "\t\r")
	}
	return s
}
