package products

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// ServeNew handles GET /products/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "products") {
		return
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "New product", "/products"),
	}
	templates.Render(w, r, "products_form", data)
}

// HandleCreate handles POST /products.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "products") {
		return
	}
	input, formErr := h.parseForm(r)
	if formErr != "" {
		data := formData{
			BaseVM:  viewdata.NewBaseVM(r, "New product", "/products"),
			Product: productFromInput(input),
			Error:   formErr,
		}
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "products_form", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := backend.Create[models.Product](ctx, h.api(r), "/products", input)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "create product failed", err, "Creating the product failed.", "/products/new")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventProductCreated, u.ID, u.Name, "products", created.ID,
			map[string]string{"sku": created.SKU})
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// ServeEdit handles GET /products/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "products") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := backend.Get[models.Product](ctx, h.api(r), "/products/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch product failed", err, "Product not found.", "/products")
		return
	}

	data := formData{
		BaseVM:  viewdata.NewBaseVM(r, "Edit "+product.Name, "/products"),
		Product: product,
		IsEdit:  true,
	}
	templates.Render(w, r, "products_form", data)
}

// HandleEdit handles POST /products/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "products") {
		return
	}
	id := chi.URLParam(r, "id")

	input, formErr := h.parseForm(r)
	if formErr != "" {
		p := productFromInput(input)
		p.ID = id
		data := formData{
			BaseVM:  viewdata.NewBaseVM(r, "Edit product", "/products"),
			Product: p,
			IsEdit:  true,
			Error:   formErr,
		}
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "products_form", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := backend.Update[models.Product](ctx, h.api(r), "/products/"+id, input); err != nil {
		h.ErrLog.LogBackendError(w, r, "update product failed", err, "Saving the product failed.", "/products/"+id+"/edit")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventProductUpdated, u.ID, u.Name, "products", id, nil)
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// HandleDelete handles POST /products/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gates.CanDelete(w, r, "products") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := backend.Delete(ctx, h.api(r), "/products/"+id); err != nil {
		h.ErrLog.LogBackendError(w, r, "delete product failed", err, "Deleting the product failed.", "/products")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventProductDeleted, u.ID, u.Name, "products", id, nil)
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// parseForm validates the product form and returns the input plus a
// user-facing error ("" when valid). Description HTML is sanitized.
func (h *Handler) parseForm(r *http.Request) (models.ProductInput, string) {
	if err := r.ParseForm(); err != nil {
		return models.ProductInput{}, "Invalid form data."
	}

	input := models.ProductInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		SKU:         strings.TrimSpace(r.PostFormValue("sku")),
		Description: h.sanitizer.Sanitize(r.PostFormValue("description")),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		Currency:    strings.ToUpper(strings.TrimSpace(r.PostFormValue("currency"))),
		Active:      r.PostFormValue("active") == "on",
	}

	if input.Name == "" {
		return input, "Name is required."
	}
	if input.SKU == "" {
		return input, "SKU is required."
	}

	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil || price <= 0 {
		return input, "Price must be a positive number."
	}
	input.Price = price

	stock, err := strconv.Atoi(r.PostFormValue("stock"))
	if err != nil || stock < 0 {
		return input, "Stock must be zero or more."
	}
	input.Stock = stock

	return input, ""
}

func productFromInput(in models.ProductInput) models.Product {
	return models.Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Currency:    in.Currency,
		Stock:       in.Stock,
		Active:      in.Active,
	}
}
