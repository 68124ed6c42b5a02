package products

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

const (
	maxUploadBytes = 5 << 20
	// maxUploadErrors caps how many per-row messages the summary shows.
	maxUploadErrors = 20
)

// uploadHeaders is the required CSV column order.
var uploadHeaders = []string{"name", "sku", "category", "price", "currency", "stock"}

// ServeUpload handles GET /products/upload.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "products") {
		return
	}
	data := uploadData{
		BaseVM: viewdata.NewBaseVM(r, "Bulk upload", "/products"),
	}
	templates.Render(w, r, "products_upload", data)
}

// HandleUpload handles POST /products/upload: validates each CSV row,
// creates the valid ones, and reports a partial-success summary. Rows
// created before a later failure are not rolled back.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "products") {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderUploadError(w, r, "The file is too large or not a valid upload.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.renderUploadError(w, r, "Choose a CSV file to upload.")
		return
	}
	defer file.Close()

	rows, errs := parseUploadCSV(file)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	result := models.BulkUploadResult{Failed: len(errs)}
	for i, input := range rows {
		if _, err := backend.Create[models.Product](ctx, h.api(r), "/products", input); err != nil {
			result.Failed++
			errs = append(errs, fmt.Sprintf("row %d (%s): %s", i+2, input.SKU, backend.UserMessage(err, "create failed")))
			continue
		}
		result.Succeeded++
	}
	if len(errs) > maxUploadErrors {
		trimmed := len(errs) - maxUploadErrors
		errs = append(errs[:maxUploadErrors], fmt.Sprintf("…and %d more", trimmed))
	}
	result.Errors = errs

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventProductBulkUpload, u.ID, u.Name, "products", "",
			map[string]string{
				"succeeded": strconv.Itoa(result.Succeeded),
				"failed":    strconv.Itoa(result.Failed),
			})
	}

	data := uploadData{
		BaseVM: viewdata.NewBaseVM(r, "Bulk upload", "/products"),
		Result: &result,
	}
	templates.Render(w, r, "products_upload", data)
}

func (h *Handler) renderUploadError(w http.ResponseWriter, r *http.Request, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	data := uploadData{
		BaseVM: viewdata.NewBaseVM(r, "Bulk upload", "/products"),
		Error:  msg,
	}
	templates.Render(w, r, "products_upload", data)
}

// parseUploadCSV reads the file and splits rows into valid inputs and
// per-row error messages. Row numbers in messages are 1-based and
// include the header line, matching what the operator sees in a
// spreadsheet.
func parseUploadCSV(f io.Reader) ([]models.ProductInput, []string) {
	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []string{"the file is empty or not valid CSV"}
	}
	if !validUploadHeader(header) {
		return nil, []string{"header must be: " + strings.Join(uploadHeaders, ",")}
	}

	var inputs []models.ProductInput
	var errs []string
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: malformed CSV", line))
			continue
		}
		input, rowErr := validateUploadRow(rec)
		if rowErr != "" {
			errs = append(errs, fmt.Sprintf("row %d: %s", line, rowErr))
			continue
		}
		inputs = append(inputs, input)
	}
	return inputs, errs
}

func validUploadHeader(header []string) bool {
	if len(header) < len(uploadHeaders) {
		return false
	}
	for i, want := range uploadHeaders {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		got = strings.TrimPrefix(got, "\ufeff")
		if got != want {
			return false
		}
	}
	return true
}

func validateUploadRow(rec []string) (models.ProductInput, string) {
	if len(rec) < len(uploadHeaders) {
		return models.ProductInput{}, "too few columns"
	}
	input := models.ProductInput{
		Name:     strings.TrimSpace(rec[0]),
		SKU:      strings.TrimSpace(rec[1]),
		Category: strings.TrimSpace(rec[2]),
		Currency: strings.ToUpper(strings.TrimSpace(rec[4])),
		Active:   true,
	}
	if input.Name == "" {
		return input, "name is required"
	}
	if input.SKU == "" {
		return input, "sku is required"
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil || price <= 0 {
		return input, "price must be a positive number"
	}
	input.Price = price
	stock, err := strconv.Atoi(strings.TrimSpace(rec[5]))
	if err != nil || stock < 0 {
		return input, "stock must be zero or more"
	}
	input.Stock = stock
	return input, ""
}
