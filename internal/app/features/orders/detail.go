package orders

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// nextStatuses is the forward-only status ladder: an order can advance
// or be cancelled, never move backwards.
var nextStatuses = map[string][]string{
	models.OrderPending: {models.OrderPaid, models.OrderCancelled},
	models.OrderPaid:    {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped: {models.OrderDelivered},
}

// ServeView handles GET /orders/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	order, err := backend.Get[models.Order](ctx, h.api(r), "/orders/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch order failed", err, "Order not found.", "/orders")
		return
	}

	lines := make([]lineVM, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, lineVM{
			Name:      it.ProductName,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: money.FormatFloat(it.UnitPrice, order.Currency),
			LineTotal: money.FormatFloat(it.LineTotal, order.Currency),
		})
	}

	role, _, _ := authz.UserCtx(r)
	data := detailData{
		BaseVM:   viewdata.NewBaseVM(r, "Order "+order.Number, "/orders"),
		Order:    order,
		Total:    money.Format(order.TotalCents(), order.Currency),
		Lines:    lines,
		Statuses: nextStatuses[order.Status],
		CanEdit:  authz.CanUpdate(role, "orders"),
	}
	templates.Render(w, r, "orders_detail", data)
}

// HandleStatusUpdate handles POST /orders/{id}/status.
func (h *Handler) HandleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "orders") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/orders")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	status := r.PostFormValue("status")

	order, err := backend.Get[models.Order](ctx, h.api(r), "/orders/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch order failed", err, "Order not found.", "/orders")
		return
	}
	if !allowedTransition(order.Status, status) {
		h.ErrLog.LogBadRequest(w, r, "invalid status transition", nil, "That status change isn't allowed.", "/orders/"+id)
		return
	}

	if _, err := backend.Update[models.Order](ctx, h.api(r), "/orders/"+id+"/status", map[string]string{"status": status}); err != nil {
		h.ErrLog.LogBackendError(w, r, "update order status failed", err, "Status update failed.", "/orders/"+id)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventOrderStatusUpdated, u.ID, u.Name, "orders", id,
			map[string]string{"from": order.Status, "to": status})
	}
	http.Redirect(w, r, "/orders/"+id, http.StatusSeeOther)
}

// HandleCancel handles POST /orders/{id}/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := backend.Create[models.Order](ctx, h.api(r), "/orders/"+id+"/cancel", nil); err != nil {
		h.ErrLog.LogBackendError(w, r, "cancel order failed", err, "Cancelling the order failed.", "/orders/"+id)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventOrderCancelled, u.ID, u.Name, "orders", id, nil)
	}
	http.Redirect(w, r, "/orders/"+id, http.StatusSeeOther)
}

func allowedTransition(from, to string) bool {
	for _, s := range nextStatuses[from] {
		if s == to {
			return true
		}
	}
	return false
}
