package datatable_test

import (
	"testing"

	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
)

type product struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Price    string `json:"price"`
	Stock    string `json:"stock"`
}

func columns() []datatable.Column[product] {
	return []datatable.Column[product]{
		{Key: "name", Header: "Name", Primary: true, Sortable: true},
		{Key: "sku", Header: "SKU"},
		{Key: "category", Header: "Category"},
		{Key: "color", Header: "Color"},
		{Key: "size", Header: "Size"},
		{Key: "stock", Header: "Stock"},
		{Key: "price", Header: "Price", Secondary: true},
	}
}

func TestBuild_LoadingWinsOverData(t *testing.T) {
	data := []product{{Name: "Mug"}}
	vm, err := datatable.Build(data, columns(), datatable.Options[product]{Loading: true})
	if err != nil {
		t.Fatal(err)
	}
	if !vm.Loading {
		t.Error("Loading not set")
	}
	if len(vm.Rows) != 0 || len(vm.Cards) != 0 {
		t.Error("loading table still rendered rows")
	}
	if len(vm.Skeletons) != datatable.SkeletonRows {
		t.Errorf("Skeletons = %d, want %d", len(vm.Skeletons), datatable.SkeletonRows)
	}
	if len(vm.CardSkeletons) != datatable.SkeletonCards {
		t.Errorf("CardSkeletons = %d, want %d", len(vm.CardSkeletons), datatable.SkeletonCards)
	}
	if vm.Empty {
		t.Error("loading table also marked empty")
	}
}

func TestBuild_EmptyState(t *testing.T) {
	vm, err := datatable.Build(nil, columns(), datatable.Options[product]{
		EmptyIcon:    "box",
		EmptyMessage: "No products.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !vm.Empty || vm.Loading {
		t.Errorf("Empty=%v Loading=%v, want true/false", vm.Empty, vm.Loading)
	}
	if vm.EmptyMessage != "No products." {
		t.Errorf("EmptyMessage = %q", vm.EmptyMessage)
	}
	if len(vm.Headers) != 7 {
		t.Errorf("empty table lost headers: %d", len(vm.Headers))
	}
}

func TestBuild_RowsAndSortIndicator(t *testing.T) {
	data := []product{{Name: "Mug", SKU: "MUG-1", Price: "€5.00"}}
	vm, err := datatable.Build(data, columns(), datatable.Options[product]{
		RowKey:        func(p product) string { return p.SKU },
		SortColumn:    "name",
		SortDirection: "desc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(vm.Rows) != 1 || vm.Rows[0].Key != "MUG-1" {
		t.Fatalf("rows = %+v", vm.Rows)
	}
	if vm.Rows[0].Cells[0].Value != "Mug" {
		t.Errorf("first cell = %q", vm.Rows[0].Cells[0].Value)
	}
	h := vm.Headers[0]
	if !h.Active || h.Direction != "desc" {
		t.Errorf("sort header = %+v", h)
	}
	if vm.Headers[1].Active {
		t.Error("inactive header marked active")
	}
}

func TestBuild_MobileCardFieldLimit(t *testing.T) {
	data := []product{{
		Name: "Mug", SKU: "MUG-1", Category: "kitchen", Color: "blue",
		Size: "L", Stock: "4", Price: "€5.00",
	}}
	vm, err := datatable.Build(data, columns(), datatable.Options[product]{})
	if err != nil {
		t.Fatal(err)
	}
	card := vm.Cards[0]
	if card.Title != "Mug" {
		t.Errorf("card title = %q", card.Title)
	}
	if card.Prominent != "€5.00" {
		t.Errorf("card prominent = %q", card.Prominent)
	}
	// Five non-primary, non-secondary columns but at most four card fields.
	if len(card.Fields) != datatable.MobileFieldLimit {
		t.Errorf("card fields = %d, want %d", len(card.Fields), datatable.MobileFieldLimit)
	}
}

func TestBuild_HideOnMobileSkipsCardField(t *testing.T) {
	cols := []datatable.Column[product]{
		{Key: "name", Header: "Name", Primary: true},
		{Key: "sku", Header: "SKU", HideOnMobile: true},
		{Key: "category", Header: "Category"},
	}
	data := []product{{Name: "Mug", SKU: "MUG-1", Category: "kitchen"}}
	vm, err := datatable.Build(data, cols, datatable.Options[product]{})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range vm.Cards[0].Fields {
		if f.Label == "SKU" {
			t.Error("HideOnMobile column appeared on the card")
		}
	}
	if len(vm.Rows[0].Cells) != 3 {
		t.Error("HideOnMobile column missing from the desktop row")
	}
}

func TestBuild_LinkColumnsCarryHref(t *testing.T) {
	cols := []datatable.Column[product]{
		{Key: "name", Header: "Name", Link: func(p product) string { return "/products/" + p.SKU }},
	}
	data := []product{{Name: "Mug", SKU: "MUG-1"}}
	vm, err := datatable.Build(data, cols, datatable.Options[product]{})
	if err != nil {
		t.Fatal(err)
	}
	if vm.Rows[0].Cells[0].Href != "/products/MUG-1" {
		t.Errorf("href = %q", vm.Rows[0].Cells[0].Href)
	}
}

func TestBuild_RejectsTwoPrimaryColumns(t *testing.T) {
	cols := []datatable.Column[product]{
		{Key: "name", Header: "Name", Primary: true},
		{Key: "sku", Header: "SKU", Primary: true},
	}
	if _, err := datatable.Build([]product{{}}, cols, datatable.Options[product]{}); err == nil {
		t.Error("expected error for two primary columns")
	}
}

func TestBuild_RejectsTwoSecondaryColumns(t *testing.T) {
	cols := []datatable.Column[product]{
		{Key: "name", Header: "Name", Secondary: true},
		{Key: "sku", Header: "SKU", Secondary: true},
	}
	if _, err := datatable.Build([]product{{}}, cols, datatable.Options[product]{}); err == nil {
		t.Error("expected error for two secondary columns")
	}
}

func TestBuild_RejectsUnresolvableKey(t *testing.T) {
	cols := []datatable.Column[product]{
		{Key: "nonexistent", Header: "Mystery"},
	}
	if _, err := datatable.Build([]product{{}}, cols, datatable.Options[product]{}); err == nil {
		t.Error("expected error for key with no field and no render func")
	}
}
