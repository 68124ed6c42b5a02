package settings

import (
	"context"
	"testing"

	"github.com/merchdesk/merchdesk/internal/domain/models"
)

func TestNewFeeSource(t *testing.T) {
	if _, ok := NewFeeSource("api").(*apiFees); !ok {
		t.Error(`NewFeeSource("api") is not the backend source`)
	}
	if _, ok := NewFeeSource("static").(*staticFees); !ok {
		t.Error(`NewFeeSource("static") is not the in-memory source`)
	}
	if _, ok := NewFeeSource("").(*staticFees); !ok {
		t.Error("unknown mode should fall back to the in-memory source")
	}
}

func TestStaticFeesAddListRemove(t *testing.T) {
	ctx := context.Background()
	src := &staticFees{}

	fees, err := src.List(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fees) != 0 {
		t.Fatalf("fresh source has %d fees", len(fees))
	}

	eu, err := src.Add(ctx, nil, models.ShippingFee{Region: "EU", Fee: 4.90, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	if eu.ID == "" {
		t.Error("Add did not assign an ID")
	}
	if eu.CreatedAt.IsZero() {
		t.Error("Add did not stamp CreatedAt")
	}

	us, err := src.Add(ctx, nil, models.ShippingFee{Region: "US", Fee: 12.00, Currency: "USD"})
	if err != nil {
		t.Fatal(err)
	}
	if us.ID == eu.ID {
		t.Error("IDs not unique")
	}

	fees, _ = src.List(ctx, nil)
	if len(fees) != 2 {
		t.Fatalf("List returned %d fees, want 2", len(fees))
	}

	if err := src.Remove(ctx, nil, eu.ID); err != nil {
		t.Fatal(err)
	}
	fees, _ = src.List(ctx, nil)
	if len(fees) != 1 || fees[0].Region != "US" {
		t.Errorf("after remove: %+v", fees)
	}

	// Removing an unknown ID is a no-op.
	if err := src.Remove(ctx, nil, "missing"); err != nil {
		t.Errorf("Remove(missing) = %v", err)
	}
}

func TestStaticFeesListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	src := &staticFees{}
	src.Add(ctx, nil, models.ShippingFee{Region: "EU", Fee: 4.90, Currency: "EUR"})

	fees, _ := src.List(ctx, nil)
	fees[0].Region = "mutated"

	again, _ := src.List(ctx, nil)
	if again[0].Region != "EU" {
		t.Error("List exposed internal slice")
	}
}
